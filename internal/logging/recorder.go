package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Entry is a single captured log record
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// String renders the entry as "LEVEL message key=value ...".
func (e Entry) String() string {
	var b strings.Builder
	b.WriteString(e.Level.String())
	b.WriteByte(' ')
	b.WriteString(e.Message)
	for k, v := range e.Attrs {
		fmt.Fprintf(&b, " %s=%s", k, v)
	}
	return b.String()
}

// Recorder is a slog.Handler that keeps every record in memory so tests can
// assert on diagnostics without parsing console output.
type Recorder struct {
	mu      *sync.Mutex
	entries *[]Entry
	attrs   []slog.Attr
	group   string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		mu:      &sync.Mutex{},
		entries: &[]Entry{},
	}
}

// Logger returns a logger backed by the recorder.
func (r *Recorder) Logger() *slog.Logger {
	return slog.New(r)
}

// Enabled implements slog.Handler. All levels are recorded.
func (r *Recorder) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle implements slog.Handler.
func (r *Recorder) Handle(_ context.Context, rec slog.Record) error {
	entry := Entry{
		Level:   rec.Level,
		Message: rec.Message,
		Attrs:   make(map[string]string),
	}
	for _, a := range r.attrs {
		entry.Attrs[r.key(a.Key)] = a.Value.String()
	}
	rec.Attrs(func(a slog.Attr) bool {
		entry.Attrs[r.key(a.Key)] = a.Value.String()
		return true
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = append(*r.entries, entry)
	return nil
}

// WithAttrs implements slog.Handler.
func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *r
	clone.attrs = append(append([]slog.Attr{}, r.attrs...), attrs...)
	return &clone
}

// WithGroup implements slog.Handler.
func (r *Recorder) WithGroup(name string) slog.Handler {
	clone := *r
	clone.group = r.key(name)
	return &clone
}

func (r *Recorder) key(k string) string {
	if r.group == "" {
		return k
	}
	return r.group + "." + k
}

// Entries returns a snapshot of all captured records.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(*r.entries))
	copy(out, *r.entries)
	return out
}

// Filter returns the records at level whose message or attributes contain substr.
func (r *Recorder) Filter(level slog.Level, substr string) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Level == level && strings.Contains(e.String(), substr) {
			out = append(out, e)
		}
	}
	return out
}

// Count is shorthand for len(Filter(level, substr)).
func (r *Recorder) Count(level slog.Level, substr string) int {
	return len(r.Filter(level, substr))
}

// Reset drops every captured record.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = (*r.entries)[:0]
}
