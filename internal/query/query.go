// Package query implements the deterministic filter and sort engine that
// computes the canonical task list view. It is a pure function over a
// snapshot of the store: it never mutates its input and has no side effects.
package query

import (
	"sort"
	"strings"
	"time"

	"taskboard/pkg/models"
)

// SortKey identifies the attribute the task list is ordered by.
type SortKey string

const (
	SortByName    SortKey = "name"
	SortByDueDate SortKey = "duedate"
	SortByStatus  SortKey = "status"
)

// Direction identifies the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseSortKey interprets a case-insensitive sort key name. Unknown or empty
// values fall back to sorting by name rather than failing.
func ParseSortKey(raw string) SortKey {
	switch strings.ToLower(raw) {
	case "duedate":
		return SortByDueDate
	case "status":
		return SortByStatus
	default:
		return SortByName
	}
}

// ParseDirection interprets a case-insensitive direction name. Anything
// other than "desc" means ascending, the default.
func ParseDirection(raw string) Direction {
	if strings.EqualFold(raw, "desc") {
		return Descending
	}
	return Ascending
}

// Params describes one list request. Nil filter fields mean "no filter";
// the filters that are set compose with AND logic.
type Params struct {
	Status    *models.TaskStatus
	DueDate   *time.Time
	SortBy    SortKey
	Direction Direction
}

// DefaultParams returns the parameters used when a caller specifies nothing:
// no filters, sorted by name ascending.
func DefaultParams() Params {
	return Params{SortBy: SortByName, Direction: Ascending}
}

// SameDay reports whether two instants fall on the same calendar day.
// Time-of-day is deliberately ignored; due dates have day resolution.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Apply filters and sorts the given snapshot according to params and returns
// a new slice. Ties under the chosen key preserve id order so repeated calls
// over the same snapshot always produce the same sequence.
func Apply(tasks []models.Task, params Params) []models.Task {
	result := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(t, params) {
			result = append(result, t)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return less(result[i], result[j], params)
	})
	return result
}

func matches(t models.Task, params Params) bool {
	if params.Status != nil && t.Status != *params.Status {
		return false
	}
	if params.DueDate != nil && !SameDay(t.DueDate, *params.DueDate) {
		return false
	}
	return true
}

// less orders two tasks under the chosen key and direction. Equal keys fall
// back to id order regardless of direction, keeping the order total.
func less(a, b models.Task, params Params) bool {
	cmp := compareKey(a, b, params.SortBy)
	if params.Direction == Descending {
		cmp = -cmp
	}
	if cmp != 0 {
		return cmp < 0
	}
	return a.ID < b.ID
}

func compareKey(a, b models.Task, key SortKey) int {
	switch key {
	case SortByDueDate:
		switch {
		case a.DueDate.Before(b.DueDate):
			return -1
		case a.DueDate.After(b.DueDate):
			return 1
		}
		return 0
	case SortByStatus:
		return a.Status.Rank() - b.Status.Rank()
	default:
		return strings.Compare(a.Name, b.Name)
	}
}
