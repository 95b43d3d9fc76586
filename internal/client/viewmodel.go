package client

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"taskboard/internal/query"
	"taskboard/pkg/models"
)

// ConnState is the view model's connection lifecycle state.
type ConnState string

const (
	StateDisconnected ConnState = "disconnected"
	StateConnecting   ConnState = "connecting"
	StateConnected    ConnState = "connected"
	StateReconnecting ConnState = "reconnecting"
)

// ViewModel maintains one client's local copy of the task list and its
// active filter and sort parameters. The local list is always a full
// replacement of the server's canonical view: on connect, on every change
// announcement, and on every local parameter change the view model re-runs
// the list query and swaps the result in. It never patches incrementally.
type ViewModel struct {
	api               *API
	reconnectDelay    time.Duration
	reconnectAttempts int

	// onChange, if set, is called after every state or list change.
	onChange func()

	mu       sync.Mutex
	state    ConnState
	params   query.Params
	tasks    []models.Task
	lastErr  error
	stopped  bool
	fetchSeq int64 // next fetch ticket
	applied  int64 // highest ticket applied to tasks

	cancel context.CancelFunc
	done   chan struct{}

	connMu sync.Mutex
	conn   *websocket.Conn
}

// Options configures a ViewModel.
type Options struct {
	// ReconnectDelay is the pause between reconnect attempts.
	ReconnectDelay time.Duration
	// ReconnectAttempts caps consecutive reconnect attempts. At least one
	// attempt is always made after a transport loss.
	ReconnectAttempts int
	// OnChange is invoked after every state or list change.
	OnChange func()
}

// NewViewModel creates a ViewModel over the given API client. It starts
// Disconnected with the default parameters (no filters, name ascending).
func NewViewModel(api *API, opts Options) *ViewModel {
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = 2 * time.Second
	}
	if opts.ReconnectAttempts < 1 {
		opts.ReconnectAttempts = 1
	}
	return &ViewModel{
		api:               api,
		reconnectDelay:    opts.ReconnectDelay,
		reconnectAttempts: opts.ReconnectAttempts,
		onChange:          opts.OnChange,
		state:             StateDisconnected,
		params:            query.DefaultParams(),
	}
}

// State returns the current connection state.
func (vm *ViewModel) State() ConnState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

// Tasks returns the current local copy of the task list.
func (vm *ViewModel) Tasks() []models.Task {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	out := make([]models.Task, len(vm.tasks))
	copy(out, vm.tasks)
	return out
}

// Err returns the most recent refresh or connection error, if any.
func (vm *ViewModel) Err() error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.lastErr
}

// Params returns the active filter and sort parameters.
func (vm *ViewModel) Params() query.Params {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.params
}

// SetParams replaces the filter and sort parameters and immediately re-runs
// the list query. No server notification is involved: the client itself
// knows its view is stale.
func (vm *ViewModel) SetParams(params query.Params) {
	vm.mu.Lock()
	vm.params = params
	vm.mu.Unlock()
	vm.refresh(context.Background())
}

// Connect dials the realtime channel and, on success, performs the initial
// full list fetch. It then listens for change announcements in the
// background until Close is called or the reconnect budget is exhausted.
func (vm *ViewModel) Connect(ctx context.Context) error {
	vm.setState(StateConnecting)

	conn, err := vm.dial(ctx)
	if err != nil {
		vm.setState(StateDisconnected)
		return models.Transportf("connecting realtime channel: %s", err.Error())
	}

	runCtx, cancel := context.WithCancel(ctx)
	vm.mu.Lock()
	vm.cancel = cancel
	vm.done = make(chan struct{})
	vm.stopped = false
	vm.mu.Unlock()

	vm.setState(StateConnected)
	// Catch-up mechanism: announcements sent before this point are gone for
	// good, so the authoritative view comes from a full fetch.
	vm.refresh(runCtx)

	go vm.run(runCtx, conn)
	return nil
}

// Close tears the connection down. Any in-flight list result arriving after
// Close is discarded, never applied.
func (vm *ViewModel) Close() {
	vm.mu.Lock()
	vm.stopped = true
	cancel := vm.cancel
	done := vm.done
	vm.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	// Closing the connection is what unblocks the listen loop; the cancelled
	// context alone does not interrupt a pending read.
	vm.connMu.Lock()
	if vm.conn != nil {
		_ = vm.conn.Close()
	}
	vm.connMu.Unlock()
	if done != nil {
		<-done
	}
	vm.setState(StateDisconnected)
}

func (vm *ViewModel) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, vm.api.WebsocketURL(), nil)
	if err != nil {
		return nil, err
	}
	vm.connMu.Lock()
	vm.conn = conn
	vm.connMu.Unlock()
	return conn, nil
}

// Announce publishes a change description on the realtime channel. The
// server rebroadcasts it verbatim to every connected client, this one
// included. A nil error only means the frame was written, not delivered.
func (vm *ViewModel) Announce(text string) error {
	vm.connMu.Lock()
	defer vm.connMu.Unlock()
	if vm.conn == nil {
		return models.Transportf("announcing: not connected")
	}
	frame := models.Announcement{Type: models.FrameAnnounce, Message: text}
	if err := vm.conn.WriteJSON(frame); err != nil {
		return models.Transportf("announcing: %s", err.Error())
	}
	return nil
}

// run reads announcement frames until the connection drops, re-running the
// list query on each one. On transport loss it moves to Reconnecting and
// retries; after the attempt budget it gives up and disconnects.
func (vm *ViewModel) run(ctx context.Context, conn *websocket.Conn) {
	defer close(vm.doneCh())

	for {
		err := vm.listen(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		vm.setErr(err)

		next, ok := vm.reconnect(ctx)
		if !ok {
			vm.setState(StateDisconnected)
			return
		}
		conn = next
		vm.setState(StateConnected)
		vm.refresh(ctx)
	}
}

// listen consumes frames from one connection until it fails.
func (vm *ViewModel) listen(ctx context.Context, conn *websocket.Conn) error {
	for {
		var frame models.Announcement
		if err := conn.ReadJSON(&frame); err != nil {
			return models.Transportf("reading realtime channel: %s", err.Error())
		}
		if frame.Type != models.FrameChanged {
			continue
		}
		// The announcement is a dirty flag, never data: re-run the query
		// with the parameters active right now, not the ones in effect when
		// the mutation happened.
		vm.refresh(ctx)
	}
}

// reconnect attempts to re-establish the channel, pausing between attempts.
func (vm *ViewModel) reconnect(ctx context.Context) (*websocket.Conn, bool) {
	vm.setState(StateReconnecting)

	for attempt := 0; attempt < vm.reconnectAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(vm.reconnectDelay):
		}

		conn, err := vm.dial(ctx)
		if err == nil {
			return conn, true
		}
		vm.setErr(models.Transportf("reconnecting realtime channel: %s", err.Error()))
	}
	return nil, false
}

// refresh re-runs the list query with the current parameters and replaces
// the local view with the result. Stale responses (an older fetch finishing
// after a newer one, or any fetch finishing after Close) are discarded.
func (vm *ViewModel) refresh(ctx context.Context) {
	vm.mu.Lock()
	if vm.stopped {
		vm.mu.Unlock()
		return
	}
	vm.fetchSeq++
	ticket := vm.fetchSeq
	params := vm.params
	vm.mu.Unlock()

	tasks, err := vm.api.List(ctx, params)

	vm.mu.Lock()
	if vm.stopped || ticket <= vm.applied {
		vm.mu.Unlock()
		return
	}
	vm.applied = ticket
	if err != nil {
		vm.lastErr = err
	} else {
		vm.tasks = tasks
		vm.lastErr = nil
	}
	vm.mu.Unlock()
	vm.notify()
}

func (vm *ViewModel) setState(state ConnState) {
	vm.mu.Lock()
	vm.state = state
	vm.mu.Unlock()
	vm.notify()
}

func (vm *ViewModel) setErr(err error) {
	vm.mu.Lock()
	vm.lastErr = err
	vm.mu.Unlock()
	vm.notify()
}

func (vm *ViewModel) doneCh() chan struct{} {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.done
}

func (vm *ViewModel) notify() {
	if vm.onChange != nil {
		vm.onChange()
	}
}
