package todo

import (
	"context"
	"io"
	"testing"
	"time"

	"todo_e2e/application/suite"
	"todo_e2e/domain/entities"
	"todo_e2e/infrastructure/browser/memory"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T, app memory.App, parallel int) (*suite.Runner, *memory.Factory) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := memory.NewFactory(app, logger)
	r := suite.NewRunner(f, nil, suite.Config{
		BaseURL:       "http://todo.test/",
		ExpectedTitle: "Todo App",
		Timeout:       200 * time.Millisecond,
		LongTimeout:   300 * time.Millisecond,
		PollInterval:  5 * time.Millisecond,
		CaseTimeout:   10 * time.Second,
		Parallel:      parallel,
	}, logger)
	return r, f
}

func runNamed(t *testing.T, r *suite.Runner, name string) entities.CaseResult {
	t.Helper()
	cases, err := suite.Select(Cases(), []string{name})
	require.NoError(t, err)
	return r.RunCase(context.Background(), cases[0])
}

func TestCasesAreUniqueAndDescribed(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Cases() {
		assert.False(t, seen[c.Name], c.Name)
		seen[c.Name] = true
		assert.NotEmpty(t, c.Description)
		assert.NotNil(t, c.Run)
	}
	assert.Len(t, seen, 10)
}

func TestEveryCasePassesAgainstWorkingApp(t *testing.T) {
	for _, c := range Cases() {
		t.Run(c.Name, func(t *testing.T) {
			r, f := newRunner(t, newTodoApp(), 1)

			res := r.RunCase(context.Background(), c)
			assert.True(t, res.Passed(), res.Error)
			assert.True(t, res.Closed)
			for _, s := range f.Sessions() {
				assert.Equal(t, 1, s.CloseCalls())
			}
		})
	}
}

func TestSuiteRunsInParallel(t *testing.T) {
	r, f := newRunner(t, newTodoApp(), 4)

	report, err := r.Run(context.Background(), Cases())
	require.NoError(t, err)
	for _, res := range report.Results {
		assert.True(t, res.Passed(), "%s: %s", res.Name, res.Error)
	}
	assert.Len(t, f.Sessions(), 10)
	for _, s := range f.Sessions() {
		assert.True(t, s.Closed())
		assert.Equal(t, 1, s.CloseCalls())
	}
}

func TestAddedItemIsListed(t *testing.T) {
	app := newTodoApp()
	r, _ := newRunner(t, app, 1)

	res := runNamed(t, r, "item-appears-after-addition")
	require.True(t, res.Passed(), res.Error)
	assert.Equal(t, []string{"Buy milk"}, app.names())
}

func TestRemovedItemLeavesStore(t *testing.T) {
	app := newTodoApp()
	r, _ := newRunner(t, app, 1)

	res := runNamed(t, r, "remove-item")
	require.True(t, res.Passed(), res.Error)
	assert.Empty(t, app.names())
}

func TestBulkAddCreatesThreeItems(t *testing.T) {
	app := newTodoApp()
	r, _ := newRunner(t, app, 1)

	res := runNamed(t, r, "add-multiple-items-and-check-count")
	require.True(t, res.Passed(), res.Error)
	assert.Len(t, app.names(), 3)
}

func TestBrokenAppTimesOut(t *testing.T) {
	app := newTodoApp()
	app.ignoreAdd = true
	r, f := newRunner(t, app, 1)

	start := time.Now()
	res := runNamed(t, r, "item-appears-after-addition")
	assert.False(t, res.Passed())
	assert.Contains(t, res.Error, "timed out")
	assert.Contains(t, res.Error, "Buy milk")
	assert.Less(t, time.Since(start), 5*time.Second)

	require.Len(t, f.Sessions(), 1)
	assert.Equal(t, 1, f.Sessions()[0].CloseCalls())
}

func TestWrongTitleFailsWithAssertion(t *testing.T) {
	app := newTodoApp()
	app.title = "React App"
	r, _ := newRunner(t, app, 1)

	res := runNamed(t, r, "home-page-title")
	assert.False(t, res.Passed())
	assert.Equal(t, `page title: expected Todo App, got React App`, res.Error)
}

func TestItemsSurviveAcrossSessions(t *testing.T) {
	app := newTodoApp()
	r, _ := newRunner(t, app, 1)

	require.True(t, runNamed(t, r, "item-persists-after-reload").Passed())
	require.Len(t, app.names(), 1)

	s := memory.NewSession(app, nil)
	ctx := context.Background()
	require.NoError(t, s.Navigate(ctx, "http://todo.test/"))
	found, err := s.FindElements(ctx, NameExact(app.names()[0]))
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestLocatorsQuoteItemText(t *testing.T) {
	app := newTodoApp()
	s := memory.NewSession(app, nil)
	ctx := context.Background()
	require.NoError(t, s.Navigate(ctx, "http://todo.test/"))

	input, err := s.FindElement(ctx, InputField)
	require.NoError(t, err)
	text := `Mom's "special" pie`
	require.NoError(t, input.SendKeys(ctx, text))
	add, err := s.FindElement(ctx, AddButton)
	require.NoError(t, err)
	require.NoError(t, add.Click(ctx))

	name, err := s.FindElement(ctx, NameExact(text))
	require.NoError(t, err)
	row, err := name.FindElement(ctx, RowOf)
	require.NoError(t, err)
	id, err := row.Attribute(ctx, "data-id")
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	rows, err := s.FindElements(ctx, RowContaining(`"special"`))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestEnabledAddButtonFailsFormCases(t *testing.T) {
	for _, name := range []string{"prevent-empty-item-submission", "add-button-disables-after-item-is-added"} {
		t.Run(name, func(t *testing.T) {
			app := newTodoApp()
			app.stickyAdd = true
			r, f := newRunner(t, app, 1)

			res := runNamed(t, r, name)
			assert.False(t, res.Passed())
			assert.Contains(t, res.Error, "wait for add button to disable")
			assert.Contains(t, res.Error, "timed out")

			require.Len(t, f.Sessions(), 1)
			assert.Equal(t, 1, f.Sessions()[0].CloseCalls())
		})
	}
}

func TestStuckCompletionFailsToggleCase(t *testing.T) {
	app := newTodoApp()
	app.stickyComplete = true
	r, f := newRunner(t, app, 1)

	res := runNamed(t, r, "toggle-item-completion-status")
	assert.False(t, res.Passed())
	assert.Contains(t, res.Error, "wait for not completed")
	assert.Contains(t, res.Error, "timed out")

	require.Len(t, f.Sessions(), 1)
	assert.Equal(t, 1, f.Sessions()[0].CloseCalls())
}
