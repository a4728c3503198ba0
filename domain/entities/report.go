package entities

import "time"

// CaseStatus represents the outcome of a test case
type CaseStatus string

const (
	CaseStatusPassed CaseStatus = "passed"
	CaseStatusFailed CaseStatus = "failed"
)

// CaseResult represents the outcome of a single test case run
type CaseResult struct {
	Name       string        `json:"name"`
	Status     CaseStatus    `json:"status"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
	Screenshot string        `json:"screenshot,omitempty"`
	Closed     bool          `json:"closed"`
}

// Passed reports whether the case succeeded
func (r CaseResult) Passed() bool {
	return r.Status == CaseStatusPassed
}

// Fail marks the result failed. Only the first error is kept.
func (r *CaseResult) Fail(err error) {
	if r.Status == CaseStatusFailed {
		return
	}
	r.Status = CaseStatusFailed
	r.Error = err.Error()
}

// Report aggregates the results of one suite invocation
type Report struct {
	Driver    string        `json:"driver"`
	BaseURL   string        `json:"base_url"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Results   []CaseResult  `json:"results"`
}

// Failed returns the results of all failed cases
func (r Report) Failed() []CaseResult {
	var failed []CaseResult
	for _, res := range r.Results {
		if !res.Passed() {
			failed = append(failed, res)
		}
	}
	return failed
}

// OK reports whether every case passed
func (r Report) OK() bool {
	return len(r.Failed()) == 0
}
