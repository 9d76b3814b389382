package logger

import (
	"context"
	"log/slog"
	"math/rand"
	"regexp"
	"sync"
)

// AsyncHandler buffers records in a channel and writes them from a single
// background goroutine, so the logging call site never blocks on output
// I/O. When the buffer is full and dropWhenFull is true, records are
// discarded; otherwise Handle blocks until space frees up.
type AsyncHandler struct {
	next         slog.Handler
	records      chan asyncRecord
	dropWhenFull bool
	closeOnce    sync.Once
	done         chan struct{}
}

type asyncRecord struct {
	ctx    context.Context
	record slog.Record
}

// NewAsyncHandler wraps next with a buffered asynchronous writer.
func NewAsyncHandler(next slog.Handler, bufferSize int, dropWhenFull bool) *AsyncHandler {
	h := &AsyncHandler{
		next:         next,
		records:      make(chan asyncRecord, bufferSize),
		dropWhenFull: dropWhenFull,
		done:         make(chan struct{}),
	}
	go h.drain()
	return h
}

func (h *AsyncHandler) drain() {
	defer close(h.done)
	for r := range h.records {
		_ = h.next.Handle(r.ctx, r.record)
	}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.dropWhenFull {
		select {
		case h.records <- asyncRecord{ctx: ctx, record: r.Clone()}:
		default:
		}
		return nil
	}
	h.records <- asyncRecord{ctx: ctx, record: r.Clone()}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewAsyncHandler(h.next.WithAttrs(attrs), cap(h.records), h.dropWhenFull)
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return NewAsyncHandler(h.next.WithGroup(name), cap(h.records), h.dropWhenFull)
}

// Close flushes buffered records and stops the background writer.
func (h *AsyncHandler) Close() {
	h.closeOnce.Do(func() {
		close(h.records)
		<-h.done
	})
}

// SamplingHandler forwards a fraction of records at INFO and below. WARN
// and ERROR records always pass through.
type SamplingHandler struct {
	next slog.Handler
	rate float64
}

// NewSamplingHandler wraps next, keeping roughly rate (0.0 - 1.0) of
// low-severity records.
func NewSamplingHandler(next slog.Handler, rate float64) *SamplingHandler {
	return &SamplingHandler{next: next, rate: rate}
}

func (h *SamplingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *SamplingHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < slog.LevelWarn && rand.Float64() >= h.rate {
		return nil
	}
	return h.next.Handle(ctx, r)
}

func (h *SamplingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SamplingHandler{next: h.next.WithAttrs(attrs), rate: h.rate}
}

func (h *SamplingHandler) WithGroup(name string) slog.Handler {
	return &SamplingHandler{next: h.next.WithGroup(name), rate: h.rate}
}

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	cardPattern  = regexp.MustCompile(`\b(?:\d[ \-]?){13,19}\b`)
)

// RedactHandler masks PII (emails, card-like digit runs) in string attribute
// values before they reach the output handler.
type RedactHandler struct {
	next slog.Handler
}

// NewRedactHandler wraps next with attribute-value redaction.
func NewRedactHandler(next slog.Handler) *RedactHandler {
	return &RedactHandler{next: next}
}

func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

func redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	s := a.Value.String()
	// Fast path: no digits or @ means nothing to scan.
	clean := true
	for i := 0; i < len(s); i++ {
		if s[i] == '@' || (s[i] >= '0' && s[i] <= '9') {
			clean = false
			break
		}
	}
	if clean {
		return a
	}
	s = emailPattern.ReplaceAllString(s, "[REDACTED_EMAIL]")
	s = cardPattern.ReplaceAllString(s, "[REDACTED_CARD]")
	return slog.String(a.Key, s)
}

func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = redactAttr(a)
	}
	return &RedactHandler{next: h.next.WithAttrs(out)}
}

func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{next: h.next.WithGroup(name)}
}
