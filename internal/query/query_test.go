package query

import (
	"testing"
	"time"

	"taskboard/pkg/models"
)

// fixedTasks returns the three-task fixture used by the sorting tests.
// Names, due dates, and statuses are arranged so each sort key produces a
// different order.
func fixedTasks() []models.Task {
	return []models.Task{
		{ID: 1, Name: "Charlie", DueDate: day(2026, 9, 1), Status: models.StatusCompleted},
		{ID: 2, Name: "Alpha", DueDate: day(2026, 9, 3), Status: models.StatusInProgress},
		{ID: 3, Name: "Bravo", DueDate: day(2026, 9, 2), Status: models.StatusNotStarted},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func names(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Name
	}
	return out
}

func assertOrder(t *testing.T, got []models.Task, want ...string) {
	t.Helper()
	gotNames := names(got)
	if len(gotNames) != len(want) {
		t.Fatalf("expected %d tasks, got %v", len(want), gotNames)
	}
	for i := range want {
		if gotNames[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, gotNames)
		}
	}
}

func TestApply_SortByNameBothDirections(t *testing.T) {
	tasks := fixedTasks()

	got := Apply(tasks, Params{SortBy: SortByName, Direction: Ascending})
	assertOrder(t, got, "Alpha", "Bravo", "Charlie")

	got = Apply(tasks, Params{SortBy: SortByName, Direction: Descending})
	assertOrder(t, got, "Charlie", "Bravo", "Alpha")
}

func TestApply_SortByDueDateBothDirections(t *testing.T) {
	tasks := fixedTasks()

	got := Apply(tasks, Params{SortBy: SortByDueDate, Direction: Ascending})
	assertOrder(t, got, "Charlie", "Bravo", "Alpha")

	got = Apply(tasks, Params{SortBy: SortByDueDate, Direction: Descending})
	assertOrder(t, got, "Alpha", "Bravo", "Charlie")
}

func TestApply_SortByStatusBothDirections(t *testing.T) {
	tasks := fixedTasks()

	got := Apply(tasks, Params{SortBy: SortByStatus, Direction: Ascending})
	assertOrder(t, got, "Bravo", "Alpha", "Charlie")

	got = Apply(tasks, Params{SortBy: SortByStatus, Direction: Descending})
	assertOrder(t, got, "Charlie", "Alpha", "Bravo")
}

func TestApply_TiesBreakByID(t *testing.T) {
	due := day(2026, 9, 1)
	tasks := []models.Task{
		{ID: 3, Name: "Same", DueDate: due, Status: models.StatusNotStarted},
		{ID: 1, Name: "Same", DueDate: due, Status: models.StatusNotStarted},
		{ID: 2, Name: "Same", DueDate: due, Status: models.StatusNotStarted},
	}

	for _, direction := range []Direction{Ascending, Descending} {
		got := Apply(tasks, Params{SortBy: SortByName, Direction: direction})
		if got[0].ID != 1 || got[1].ID != 2 || got[2].ID != 3 {
			t.Fatalf("direction %s: expected id order 1,2,3 for equal keys, got %d,%d,%d",
				direction, got[0].ID, got[1].ID, got[2].ID)
		}
	}
}

func TestApply_NameIsCaseSensitive(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Name: "apple"},
		{ID: 2, Name: "Banana"},
	}

	// Uppercase sorts before lowercase in a case-sensitive comparison.
	got := Apply(tasks, Params{SortBy: SortByName, Direction: Ascending})
	assertOrder(t, got, "Banana", "apple")
}

func TestApply_StatusFilter(t *testing.T) {
	tasks := fixedTasks()
	inProgress := models.StatusInProgress

	got := Apply(tasks, Params{Status: &inProgress, SortBy: SortByName, Direction: Ascending})
	assertOrder(t, got, "Alpha")
}

func TestApply_DueDateFilterIgnoresTimeOfDay(t *testing.T) {
	sameDay := day(2026, 9, 1)
	tasks := []models.Task{
		{ID: 1, Name: "Morning", DueDate: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "Evening", DueDate: time.Date(2026, 9, 1, 23, 30, 0, 0, time.UTC)},
		{ID: 3, Name: "NextDay", DueDate: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)},
	}

	got := Apply(tasks, Params{DueDate: &sameDay, SortBy: SortByName, Direction: Ascending})
	assertOrder(t, got, "Evening", "Morning")
}

func TestApply_FiltersComposeConjunctively(t *testing.T) {
	notStarted := models.StatusNotStarted
	targetDay := day(2026, 9, 1)
	tasks := []models.Task{
		// Matches status but not date.
		{ID: 1, Name: "WrongDay", DueDate: day(2026, 9, 2), Status: models.StatusNotStarted},
		// Matches date but not status.
		{ID: 2, Name: "WrongStatus", DueDate: targetDay, Status: models.StatusCompleted},
		// Matches both.
		{ID: 3, Name: "Both", DueDate: targetDay, Status: models.StatusNotStarted},
	}

	got := Apply(tasks, Params{Status: &notStarted, DueDate: &targetDay, SortBy: SortByName, Direction: Ascending})
	assertOrder(t, got, "Both")
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	tasks := fixedTasks()
	_ = Apply(tasks, Params{SortBy: SortByDueDate, Direction: Descending})

	if tasks[0].Name != "Charlie" || tasks[1].Name != "Alpha" || tasks[2].Name != "Bravo" {
		t.Fatalf("input slice was reordered: %v", names(tasks))
	}
}

func TestParseSortKey_Permissive(t *testing.T) {
	cases := map[string]SortKey{
		"name":    SortByName,
		"Name":    SortByName,
		"duedate": SortByDueDate,
		"DueDate": SortByDueDate,
		"STATUS":  SortByStatus,
		"":        SortByName,
		"bogus":   SortByName,
	}
	for raw, want := range cases {
		if got := ParseSortKey(raw); got != want {
			t.Fatalf("ParseSortKey(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestParseDirection_Permissive(t *testing.T) {
	cases := map[string]Direction{
		"asc":   Ascending,
		"desc":  Descending,
		"DESC":  Descending,
		"":      Ascending,
		"bogus": Ascending,
	}
	for raw, want := range cases {
		if got := ParseDirection(raw); got != want {
			t.Fatalf("ParseDirection(%q) = %q, want %q", raw, got, want)
		}
	}
}
