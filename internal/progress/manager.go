package progress

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"

	"ytcorpus/internal/shared"
)

// updateBuffer bounds the manager's outbound update channel. A consumer
// that falls further behind loses intermediate events, never the
// subscription itself.
const updateBuffer = 64

// Manager maintains at most one open subscription per dataset identifier
// and surfaces the latest event per dataset to the owning view.
type Manager struct {
	dial    Dialer
	logger  *log.Logger
	updates chan Update

	mu     sync.Mutex
	subs   map[int]*subscription
	latest map[int]Event

	wg sync.WaitGroup
}

type subscription struct {
	datasetID int
	conn      Conn
}

// NewManager creates a manager with no open subscriptions.
func NewManager(dial Dialer, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{
		dial:    dial,
		logger:  logger,
		updates: make(chan Update, updateBuffer),
		subs:    make(map[int]*subscription),
		latest:  make(map[int]Event),
	}
}

// Updates returns the stream of progress and refetch signals.
func (m *Manager) Updates() <-chan Update {
	return m.updates
}

// Reconcile aligns open subscriptions with the datasets currently
// rendered by the owning view.
//
// Every transient dataset without a subscription gets one opened; every
// subscription whose dataset is no longer transient (or no longer
// visible) is closed and its cached event discarded. Calling twice with
// the same input performs no redundant opens or closes. A subscription
// that fails to establish is logged and skipped; the next Reconcile will
// try again.
func (m *Manager) Reconcile(ctx context.Context, visible []DatasetState) {
	statuses := make(map[int]DatasetState, len(visible))
	for _, ds := range visible {
		statuses[ds.ID] = ds
	}

	m.mu.Lock()
	var stale []*subscription
	for id, sub := range m.subs {
		if ds, ok := statuses[id]; ok && ds.Status.Transient() {
			continue
		}
		delete(m.subs, id)
		delete(m.latest, id)
		stale = append(stale, sub)
	}
	m.mu.Unlock()

	for _, sub := range stale {
		sub.conn.Close()
		m.logger.Debug("closed progress subscription", "dataset", sub.datasetID)
	}

	for _, ds := range visible {
		if !ds.Status.Transient() {
			continue
		}
		if m.Subscribed(ds.ID) {
			continue
		}

		conn, err := m.dial(ctx, ds.ID)
		if err != nil {
			m.logger.Warn("failed to open progress subscription", "dataset", ds.ID, "err", err)
			continue
		}

		sub := &subscription{datasetID: ds.ID, conn: conn}

		m.mu.Lock()
		if _, exists := m.subs[ds.ID]; exists {
			m.mu.Unlock()
			conn.Close()
			continue
		}
		m.subs[ds.ID] = sub
		m.mu.Unlock()

		m.wg.Add(1)
		go m.readLoop(sub)
		m.logger.Debug("opened progress subscription", "dataset", ds.ID)
	}
}

// Teardown closes every open subscription unconditionally and waits for
// their read loops to exit. No subscription outlives the owning view.
func (m *Manager) Teardown() {
	m.mu.Lock()
	subs := make([]*subscription, 0, len(m.subs))
	for _, sub := range m.subs {
		subs = append(subs, sub)
	}
	m.subs = make(map[int]*subscription)
	m.latest = make(map[int]Event)
	m.mu.Unlock()

	for _, sub := range subs {
		sub.conn.Close()
	}
	m.wg.Wait()
}

// Snapshot returns a copy of the latest cached event per dataset.
func (m *Manager) Snapshot() map[int]Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make(map[int]Event, len(m.latest))
	for id, ev := range m.latest {
		snapshot[id] = ev
	}
	return snapshot
}

// Subscribed reports whether a subscription is open for the dataset.
func (m *Manager) Subscribed(datasetID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.subs[datasetID]
	return ok
}

// ActiveCount returns the number of open subscriptions.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

func (m *Manager) readLoop(sub *subscription) {
	defer m.wg.Done()

	for {
		_, data, err := sub.conn.ReadMessage()
		if err != nil {
			m.dropSubscription(sub, err)
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			// Malformed frames are dropped without touching the
			// subscription or the cached event.
			m.logger.Debug("dropping malformed progress frame", "dataset", sub.datasetID, "err", err)
			continue
		}

		m.onEvent(sub, ev)
	}
}

// onEvent records the latest event for the subscription's dataset. A
// completion event closes the subscription, discards the cached event
// and emits exactly one refetch signal for the dataset.
func (m *Manager) onEvent(sub *subscription, ev Event) {
	id := sub.datasetID

	m.mu.Lock()
	if m.subs[id] != sub {
		// Closed by Reconcile or Teardown while the frame was in flight.
		m.mu.Unlock()
		return
	}

	if ev.Done() {
		delete(m.subs, id)
		delete(m.latest, id)
		m.mu.Unlock()

		sub.conn.Close()
		m.emit(Update{DatasetID: id, Refetch: true})
		return
	}

	m.latest[id] = ev
	m.mu.Unlock()

	m.emit(Update{DatasetID: id, Event: &ev})
}

// dropSubscription handles a read-side failure: the subscription is left
// closed with no retry; the next Reconcile may reopen it.
func (m *Manager) dropSubscription(sub *subscription, cause error) {
	id := sub.datasetID

	m.mu.Lock()
	if m.subs[id] != sub {
		// Deliberate close from Reconcile/Teardown, not a failure.
		m.mu.Unlock()
		return
	}
	delete(m.subs, id)
	delete(m.latest, id)
	m.mu.Unlock()

	sub.conn.Close()
	m.logger.Warn("progress subscription ended", "dataset", id, "err", cause)
}

func (m *Manager) emit(u Update) {
	select {
	case m.updates <- u:
	default:
		m.logger.Debug("dropping progress update, consumer behind", "dataset", u.DatasetID)
	}
}
