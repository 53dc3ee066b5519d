package cli

import (
	"bytes"
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/dori/tasknote/internal/app"
	"github.com/dori/tasknote/internal/config"
	"github.com/dori/tasknote/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// harness runs commands against one temp data dir with a ticking clock
type harness struct {
	t      *testing.T
	cfg    *config.Config
	clock  time.Time
	tuiRan bool
}

func newHarness(t *testing.T) *harness {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	return &harness{t: t, cfg: cfg, clock: monday}
}

func (h *harness) open(ctx context.Context, opts app.Options) (*app.App, error) {
	opts.SkipLogging = true
	return app.New(ctx, h.cfg, opts)
}

func (h *harness) now() time.Time {
	h.clock = h.clock.Add(time.Second)
	return h.clock
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(h.open, func(ctx context.Context, a *app.App) error {
		h.tuiRan = true
		return nil
	}, h.now)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if args == nil {
		// a nil slice makes cobra fall back to os.Args
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

// task reads a task straight from the database
func (h *harness) task(ts int64) *model.Task {
	h.t.Helper()
	a, err := h.open(context.Background(), app.Options{SkipLock: true, DisableReminders: true})
	require.NoError(h.t, err)
	defer a.Close()

	task, err := a.DB.GetTaskByTimestamp(context.Background(), ts)
	require.NoError(h.t, err)
	return task
}

// Monday, 10:00 local
var monday = time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)

var tomorrowEOD = time.Date(2026, 3, 3, 23, 59, 59, 0, time.Local).UnixMilli()

func TestAddAndShow(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("add", "Buy milk !high due:tomorrow", "--item", "2% milk", "--item", "oat milk", "--link", "https://meet.example/x")
	assert.Contains(t, out, "Created: Buy milk")
	assert.Contains(t, out, "Priority: high")
	assert.Contains(t, out, "ID: "+strconv.FormatInt(tomorrowEOD, 10))

	task := h.task(tomorrowEOD)
	require.NotNil(t, task)
	assert.Equal(t, model.CategoryHigh, task.Category)
	assert.Equal(t, "https://meet.example/x", task.MeetingLink)
	require.Len(t, task.Items, 2)

	out = h.mustRun("show", strconv.FormatInt(tomorrowEOD, 10))
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "Progress: 0/2 (0%)")
	assert.Contains(t, out, "[ ] 2% milk  "+task.Items[0].ID)
}

func TestAddWithoutDueIsEndOfToday(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "water plants")

	eod := time.Date(2026, 3, 2, 23, 59, 59, 0, time.Local).UnixMilli()
	task := h.task(eod)
	require.NotNil(t, task)
	assert.Equal(t, model.CategoryMedium, task.Category)
}

func TestAddRejectsEmptyTitleAndBadDue(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("add", "!high")
	assert.Error(t, err)

	_, err = h.run("add", "thing", "--due", "whenever")
	assert.Error(t, err)
}

func TestCheckUpdatesProgress(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "Buy milk due:tomorrow", "--item", "2% milk")
	ts := strconv.FormatInt(tomorrowEOD, 10)
	itemID := h.task(tomorrowEOD).Items[0].ID

	out := h.mustRun("check", ts, itemID)
	assert.Contains(t, out, "Buy milk: 1/1 (100%)")
	assert.Equal(t, 1, h.task(tomorrowEOD).CompletedCount)

	out = h.mustRun("check", ts, itemID, "--undo")
	assert.Contains(t, out, "Buy milk: 0/1 (0%)")

	_, err := h.run("check", ts, "no-such-item")
	assert.Error(t, err)
}

func TestEditTask(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "Call plumber due:tomorrow", "--item", "find number")
	ts := strconv.FormatInt(tomorrowEOD, 10)
	h.mustRun("check", ts, h.task(tomorrowEOD).Items[0].ID)

	friday := time.Date(2026, 3, 6, 23, 59, 59, 0, time.Local).UnixMilli()
	out := h.mustRun("edit", ts,
		"--title", "Call the plumber",
		"--subtitle", "kitchen sink",
		"--link", "https://meet.example/p",
		"--priority", "urgent",
		"--due", "fri")
	assert.Contains(t, out, "Updated: Call the plumber")
	assert.Contains(t, out, "ID: "+strconv.FormatInt(friday, 10))

	assert.Nil(t, h.task(tomorrowEOD))

	task := h.task(friday)
	require.NotNil(t, task)
	assert.Equal(t, "Call the plumber", task.Title)
	assert.Equal(t, "kitchen sink", task.Subtitle)
	assert.Equal(t, "https://meet.example/p", task.MeetingLink)
	assert.Equal(t, model.CategoryUrgent, task.Category)
	require.Len(t, task.Items, 1)
	assert.True(t, task.Items[0].Completed)
	assert.Equal(t, 1, task.CompletedCount)

	// only the given flags change
	h.mustRun("edit", strconv.FormatInt(friday, 10), "--subtitle", "")
	task = h.task(friday)
	assert.Equal(t, "Call the plumber", task.Title)
	assert.Empty(t, task.Subtitle)
}

func TestEditTaskRejections(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "Call plumber due:tomorrow")
	ts := strconv.FormatInt(tomorrowEOD, 10)

	_, err := h.run("edit", ts)
	assert.Error(t, err)

	_, err = h.run("edit", "12345", "--title", "ghost")
	assert.Error(t, err)

	_, err = h.run("edit", ts, "--due", "whenever")
	assert.Error(t, err)

	_, err = h.run("edit", ts, "--priority", "meh")
	assert.Error(t, err)

	_, err = h.run("edit", ts, "--title", "  ", "--due", "fri")
	assert.Error(t, err)

	task := h.task(tomorrowEOD)
	require.NotNil(t, task)
	assert.Equal(t, "Call plumber", task.Title)
}

func TestDoneUndoneAndRemove(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "ship release due:tomorrow")
	ts := strconv.FormatInt(tomorrowEOD, 10)

	h.mustRun("done", ts)
	assert.True(t, h.task(tomorrowEOD).IsDone)
	assert.Contains(t, h.mustRun("list"), "[x] "+ts)

	h.mustRun("undone", ts)
	assert.False(t, h.task(tomorrowEOD).IsDone)

	h.mustRun("rm", ts)
	assert.Nil(t, h.task(tomorrowEOD))
	assert.Contains(t, h.mustRun("list"), "No tasks found.")

	_, err := h.run("done", ts)
	assert.Error(t, err)

	_, err = h.run("done", "not-a-number")
	assert.Error(t, err)
}

func TestListFilters(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "today thing due:17:00")
	h.mustRun("add", "tomorrow thing due:tomorrow")

	all := h.mustRun("list")
	assert.Contains(t, all, "today thing")
	assert.Contains(t, all, "tomorrow thing")

	today := h.mustRun("list", "--today")
	assert.Contains(t, today, "today thing")
	assert.NotContains(t, today, "tomorrow thing")

	dated := h.mustRun("list", "--date", "2026-03-03")
	assert.Contains(t, dated, "tomorrow thing")
	assert.NotContains(t, dated, "today thing")
}

func TestNotes(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("note", "add", "Recipe", "--content", "flour, water")
	assert.Contains(t, out, "Created note: Recipe")
	h.mustRun("note", "add", "Ideas", "-c", "a garden")

	list := h.mustRun("note", "list")
	assert.Less(t, bytes.Index([]byte(list), []byte("Ideas")), bytes.Index([]byte(list), []byte("Recipe")), "newest first")

	found := h.mustRun("note", "search", "garden")
	assert.Contains(t, found, "Ideas")
	assert.NotContains(t, found, "Recipe")

	// the first note was stamped one tick after monday
	ts := strconv.FormatInt(monday.Add(time.Second).UnixMilli(), 10)
	h.mustRun("note", "edit", ts, "--content", "flour, water, salt")
	assert.Contains(t, h.mustRun("note", "show", ts), "flour, water, salt")

	_, err := h.run("note", "edit", ts)
	assert.Error(t, err)

	h.mustRun("note", "rm", ts)
	_, err = h.run("note", "show", ts)
	assert.Error(t, err)
}

func TestTheme(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.mustRun("theme"), "Theme: system")
	assert.Contains(t, h.mustRun("theme", "dark"), "Theme set to dark")
	assert.Contains(t, h.mustRun("theme"), "Theme: dark")

	_, err := h.run("theme", "neon")
	assert.Error(t, err)
}

func TestRootStartsTUI(t *testing.T) {
	h := newHarness(t)
	h.mustRun()
	assert.True(t, h.tuiRan)
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.mustRun("version"), "tasknote dev")
}
