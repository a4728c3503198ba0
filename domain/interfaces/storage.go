package interfaces

import "todo_e2e/domain/entities"

// ArtifactStore persists the by-products of a suite run
type ArtifactStore interface {
	// SaveScreenshot stores a failure screenshot and returns its path
	SaveScreenshot(caseName string, data []byte) (string, error)

	// SaveReport stores the run report
	SaveReport(report entities.Report) error
}
