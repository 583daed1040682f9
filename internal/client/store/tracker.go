package store

import "errors"

// ErrSuperseded is returned when a newer request of the same store was
// dispatched before this one completed, so its outcome was not recorded.
var ErrSuperseded = errors.New("request superseded by a newer one")

type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

// Lifecycle is the request state shared by every store.
type Lifecycle struct {
	Status  Status
	Loading bool
	Error   string
}

// tracker sequences requests. It is guarded by the owning store's mutex.
type tracker struct {
	Lifecycle
	issued uint64
}

func newTracker() tracker {
	return tracker{Lifecycle: Lifecycle{Status: StatusIdle}}
}

func (t *tracker) begin() uint64 {
	t.issued++
	t.Status = StatusPending
	t.Loading = true
	t.Error = ""
	return t.issued
}

func (t *tracker) current(ticket uint64) bool {
	return ticket == t.issued
}

func (t *tracker) fulfil() {
	t.Status = StatusFulfilled
	t.Loading = false
}

func (t *tracker) reject(msg string) {
	t.Status = StatusRejected
	t.Loading = false
	t.Error = msg
}

// reset drops any in-flight request and returns to idle.
func (t *tracker) reset() {
	t.issued++
	t.Lifecycle = Lifecycle{Status: StatusIdle}
}
