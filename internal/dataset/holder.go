package dataset

import "sync"

// Holder memoizes a single dataset load for the process lifetime. Concurrent
// first callers share one load; later callers get the same result, including
// a load error.
type Holder struct {
	get func() (*Dataset, error)
}

func NewHolder(load func() (*Dataset, error)) *Holder {
	return &Holder{get: sync.OnceValues(load)}
}

// Preloaded returns a Holder that already holds ds.
func Preloaded(ds *Dataset) *Holder {
	return NewHolder(func() (*Dataset, error) { return ds, nil })
}

func (h *Holder) Get() (*Dataset, error) {
	return h.get()
}
