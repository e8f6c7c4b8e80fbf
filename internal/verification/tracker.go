package verification

import (
	"math"
	"sync"
)

// ScoreStore is the persistence contract for a node's running authenticity
// score. The node registry owns the storage; the tracker only touches the
// score column.
type ScoreStore interface {
	GetAuthenticityScore(nodeID int64) (int, error)
	UpdateAuthenticityScore(nodeID int64, score int) error
}

// Tracker maintains each node's smoothed running trust score. The
// read-modify-write is serialized per node id so concurrent verifications
// for the same node cannot lose an update.
type Tracker struct {
	smoothing float64

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewTracker(smoothing float64) *Tracker {
	return &Tracker{
		smoothing: smoothing,
		locks:     map[int64]*sync.Mutex{},
	}
}

// Smooth applies the exponential moving average:
// round(previous*(1-smoothing) + score*smoothing).
func (t *Tracker) Smooth(previous int, score float64) int {
	return int(math.Round(float64(previous)*(1-t.smoothing) + score*t.smoothing))
}

// Apply reads the node's current score, smooths in the new verdict score and
// writes the result back, all under the node's lock.
func (t *Tracker) Apply(store ScoreStore, nodeID int64, verdictScore float64) (int, error) {
	lock := t.nodeLock(nodeID)
	lock.Lock()
	defer lock.Unlock()

	previous, err := store.GetAuthenticityScore(nodeID)
	if err != nil {
		return 0, err
	}
	updated := t.Smooth(previous, verdictScore)
	if err := store.UpdateAuthenticityScore(nodeID, updated); err != nil {
		return 0, err
	}
	return updated, nil
}

// nodeLock returns the mutex for a node, creating it on first use. Locks are
// never evicted; the map holds at most one entry per registered node.
func (t *Tracker) nodeLock(nodeID int64) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.locks[nodeID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[nodeID] = lock
	}
	return lock
}
