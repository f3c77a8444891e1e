package checks

import (
	"fmt"
	"sync"
)

// stubReporter captures fault reports for assertions.
type stubReporter struct {
	mu   sync.Mutex
	msgs []string
}

func (r *stubReporter) Reportf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, fmt.Sprintf(format, args...))
}

func (r *stubReporter) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.msgs))
	copy(out, r.msgs)
	return out
}
