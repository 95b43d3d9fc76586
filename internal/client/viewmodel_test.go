package client

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/query"
	"taskboard/pkg/models"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

func connect(t *testing.T, vm *ViewModel) {
	t.Helper()
	if err := vm.Connect(context.Background()); err != nil {
		t.Fatalf("connecting: %v", err)
	}
	t.Cleanup(vm.Close)
}

func TestViewModel_ConnectFetchesInitialList(t *testing.T) {
	ts := newBackend(t)
	api := newTestAPI(t, ts)
	ctx := context.Background()

	if _, err := api.Create(ctx, models.CreateTaskRequest{
		Name: "preexisting", DueDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	vm := NewViewModel(api, Options{})
	if vm.State() != StateDisconnected {
		t.Fatalf("expected Disconnected before Connect, got %s", vm.State())
	}

	connect(t, vm)
	if vm.State() != StateConnected {
		t.Fatalf("expected Connected, got %s", vm.State())
	}

	tasks := vm.Tasks()
	if len(tasks) != 1 || tasks[0].Name != "preexisting" {
		t.Fatalf("expected the initial fetch to load the board, got %v", tasks)
	}
}

// TestViewModel_PeerMutationPropagates is the two-client scenario: A and B
// are both connected, A creates a task, and B's local view ends up including
// it without B doing anything.
func TestViewModel_PeerMutationPropagates(t *testing.T) {
	ts := newBackend(t)
	apiA := newTestAPI(t, ts)
	apiB := newTestAPI(t, ts)

	a := NewViewModel(apiA, Options{})
	b := NewViewModel(apiB, Options{})
	connect(t, a)
	connect(t, b)

	created, err := apiA.Create(context.Background(), models.CreateTaskRequest{
		Name: "Test 1", DueDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("creating from a: %v", err)
	}

	sees := func(vm *ViewModel) func() bool {
		return func() bool {
			for _, task := range vm.Tasks() {
				if task.ID == created.ID {
					return true
				}
			}
			return false
		}
	}
	waitFor(t, sees(b), "client b to see the new task")
	// The announcer hears its own announcement too.
	waitFor(t, sees(a), "client a to see the new task")
}

func TestViewModel_RefreshUsesCurrentParamsNotMutationTimeParams(t *testing.T) {
	ts := newBackend(t)
	api := newTestAPI(t, ts)
	ctx := context.Background()

	vm := NewViewModel(api, Options{})
	connect(t, vm)

	// Narrow the view to completed tasks, then create a NotStarted task.
	// The refresh triggered by the announcement must apply the filter that
	// is active now, so the new task stays out of the local view.
	completed := models.StatusCompleted
	vm.SetParams(query.Params{Status: &completed, SortBy: query.SortByName, Direction: query.Ascending})

	if _, err := api.Create(ctx, models.CreateTaskRequest{
		Name: "fresh", DueDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("creating: %v", err)
	}

	// Give the announcement time to arrive and be acted on.
	time.Sleep(200 * time.Millisecond)
	if tasks := vm.Tasks(); len(tasks) != 0 {
		t.Fatalf("expected the filter to hide the new task, got %v", tasks)
	}
}

func TestViewModel_SetParamsRefreshesImmediately(t *testing.T) {
	ts := newBackend(t)
	api := newTestAPI(t, ts)
	ctx := context.Background()

	day1 := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	if _, err := api.Create(ctx, models.CreateTaskRequest{Name: "Alpha", DueDate: day1}); err != nil {
		t.Fatalf("creating Alpha: %v", err)
	}
	if _, err := api.Create(ctx, models.CreateTaskRequest{Name: "Bravo", DueDate: day2}); err != nil {
		t.Fatalf("creating Bravo: %v", err)
	}

	vm := NewViewModel(api, Options{})
	connect(t, vm)

	vm.SetParams(query.Params{SortBy: query.SortByDueDate, Direction: query.Descending})

	tasks := vm.Tasks()
	if len(tasks) != 2 || tasks[0].Name != "Bravo" {
		t.Fatalf("expected an immediate reorder, got %v", tasks)
	}
}

func TestViewModel_AnnounceTriggersPeerRefresh(t *testing.T) {
	ts := newBackend(t)
	a := NewViewModel(newTestAPI(t, ts), Options{})
	b := NewViewModel(newTestAPI(t, ts), Options{})
	connect(t, a)
	connect(t, b)

	// Mutate through b's API client without the service announcing twice,
	// then announce manually from a. Both clients must refetch.
	created, err := b.api.Create(context.Background(), models.CreateTaskRequest{
		Name: "manual", DueDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("creating: %v", err)
	}
	if err := a.Announce("task list changed"); err != nil {
		t.Fatalf("announcing: %v", err)
	}

	waitFor(t, func() bool {
		for _, task := range a.Tasks() {
			if task.ID == created.ID {
				return true
			}
		}
		return false
	}, "client a to pick up the manual announcement")
}

func TestViewModel_CloseStopsApplyingResults(t *testing.T) {
	ts := newBackend(t)
	api := newTestAPI(t, ts)
	ctx := context.Background()

	vm := NewViewModel(api, Options{})
	if err := vm.Connect(ctx); err != nil {
		t.Fatalf("connecting: %v", err)
	}
	vm.Close()

	if vm.State() != StateDisconnected {
		t.Fatalf("expected Disconnected after Close, got %s", vm.State())
	}

	// A mutation after teardown must not leak into the closed view model.
	if _, err := api.Create(ctx, models.CreateTaskRequest{
		Name: "after close", DueDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("creating: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if tasks := vm.Tasks(); len(tasks) != 0 {
		t.Fatalf("expected no tasks applied after Close, got %v", tasks)
	}

	if err := vm.Announce("stale"); err == nil {
		t.Fatal("expected Announce to fail after Close")
	}

	// Close is idempotent.
	vm.Close()
}

func TestViewModel_ConnectFailsCleanlyWhenServerIsDown(t *testing.T) {
	ts := newBackend(t)
	url := ts.URL
	ts.Close()

	api, err := NewAPI(url, time.Second)
	if err != nil {
		t.Fatalf("creating api client: %v", err)
	}
	vm := NewViewModel(api, Options{ReconnectDelay: 10 * time.Millisecond, ReconnectAttempts: 1})

	if err := vm.Connect(context.Background()); err == nil {
		t.Fatal("expected Connect to fail")
	}
	if vm.State() != StateDisconnected {
		t.Fatalf("expected Disconnected after a failed Connect, got %s", vm.State())
	}
}

func TestViewModel_ReconnectBudgetExhaustionDisconnects(t *testing.T) {
	ts := newBackend(t)
	api := newTestAPI(t, ts)

	vm := NewViewModel(api, Options{ReconnectDelay: 10 * time.Millisecond, ReconnectAttempts: 2})
	if err := vm.Connect(context.Background()); err != nil {
		t.Fatalf("connecting: %v", err)
	}
	t.Cleanup(vm.Close)

	// Kill the server. The view model should pass through Reconnecting,
	// exhaust its attempts, and come to rest Disconnected.
	ts.Close()

	waitFor(t, func() bool {
		return vm.State() == StateDisconnected
	}, "the reconnect budget to run out")
	if vm.Err() == nil {
		t.Fatal("expected a transport error to be recorded")
	}
}
