package translate

import "sync/atomic"

// Handle holds the current Translator so long-running servers can swap in a
// new one when configuration changes. Calls already in flight keep the
// Translator they started with.
type Handle struct {
	p atomic.Pointer[Translator]
}

// NewHandle returns a Handle holding t.
func NewHandle(t *Translator) *Handle {
	h := &Handle{}
	h.p.Store(t)
	return h
}

// Load returns the current Translator.
func (h *Handle) Load() *Translator {
	return h.p.Load()
}

// Store replaces the current Translator.
func (h *Handle) Store(t *Translator) {
	h.p.Store(t)
}
