package qrsite

import (
	"sync"

	"github.com/prasetyowira/qrsite/constant"
)

// SaveStatus describes the outcome of the once-per-process PNG save.
type SaveStatus struct {
	State   string
	Path    string
	Payload string
	Error   string
}

// Saved reports whether the PNG was written.
func (s SaveStatus) Saved() bool {
	return s.State == constant.SaveStatusSaved
}

// Failed reports whether the save was attempted and failed.
func (s SaveStatus) Failed() bool {
	return s.State == constant.SaveStatusFailed
}

// saveCell runs its evaluation at most once. Readers see either the
// pending state or the final one, never a partial result.
type saveCell struct {
	mu     sync.Mutex
	done   bool
	status SaveStatus
}

func newSaveCell() *saveCell {
	return &saveCell{status: SaveStatus{State: constant.SaveStatusPending}}
}

// evaluate calls fn on the first call only and returns the stored status.
func (c *saveCell) evaluate(fn func() SaveStatus) SaveStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.done {
		c.status = fn()
		c.done = true
	}
	return c.status
}

func (c *saveCell) get() SaveStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}
