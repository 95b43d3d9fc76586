package cli

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"taskboard/pkg/models"
)

func TestSeedTask_ConvertsAndDefaults(t *testing.T) {
	task, err := seedTask(seedEntry{
		Name:        "prepare demo",
		Description: "board for the walkthrough",
		DueDate:     "2026-09-14",
		Status:      "inprogress",
	})
	if err != nil {
		t.Fatalf("converting: %v", err)
	}
	if task.Name != "prepare demo" || task.Status != models.StatusInProgress {
		t.Fatalf("unexpected task %+v", task)
	}
	want := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	if !task.DueDate.Equal(want) {
		t.Fatalf("expected due date %v, got %v", want, task.DueDate)
	}

	// Status defaults to NotStarted when the fixture omits it.
	task, err = seedTask(seedEntry{Name: "bare", DueDate: "2026-09-14"})
	if err != nil {
		t.Fatalf("converting minimal entry: %v", err)
	}
	if task.Status != models.StatusNotStarted {
		t.Fatalf("expected NotStarted default, got %s", task.Status)
	}
}

func TestSeedTask_RejectsBadEntries(t *testing.T) {
	cases := map[string]seedEntry{
		"empty name":     {Name: "", DueDate: "2026-09-14"},
		"missing date":   {Name: "x"},
		"bad date":       {Name: "x", DueDate: "14/09/2026"},
		"unknown status": {Name: "x", DueDate: "2026-09-14", Status: "Blocked"},
	}
	for name, entry := range cases {
		if _, err := seedTask(entry); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestSeedFile_ParsesFixtureYAML(t *testing.T) {
	raw := `
tasks:
  - name: "Test 1"
    description: "first"
    due_date: "2026-09-01"
  - name: "Test 2"
    due_date: "2026-09-02"
    status: Completed
`
	var file seedFile
	if err := yaml.Unmarshal([]byte(raw), &file); err != nil {
		t.Fatalf("parsing: %v", err)
	}
	if len(file.Tasks) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(file.Tasks))
	}
	if file.Tasks[1].Status != "Completed" {
		t.Fatalf("unexpected second entry %+v", file.Tasks[1])
	}
}
