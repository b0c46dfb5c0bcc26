package spies

import (
	"context"
	"maps"
	"sync"

	"github.com/schoollibrary/circulation/eventstore"
)

// SpanRecord is a span that was started and possibly finished.
type SpanRecord struct {
	Name     string
	Attrs    map[string]string
	Status   string
	Finished bool
}

// TracingCollectorSpy captures spans.
type TracingCollectorSpy struct {
	mu    sync.Mutex
	spans []*SpanRecord
}

func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, eventstore.SpanContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := &SpanRecord{Name: name, Attrs: maps.Clone(attrs)}
	if record.Attrs == nil {
		record.Attrs = make(map[string]string)
	}

	s.spans = append(s.spans, record)

	return ctx, &spanSpy{owner: s, record: record}
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*spanSpy)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	maps.Copy(span.record.Attrs, attrs)
	span.record.Status = status
	span.record.Finished = true
}

// Spans returns copies of all captured spans.
func (s *TracingCollectorSpy) Spans() []SpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SpanRecord, 0, len(s.spans))
	for _, span := range s.spans {
		copied := *span
		copied.Attrs = maps.Clone(span.Attrs)
		out = append(out, copied)
	}

	return out
}

type spanSpy struct {
	owner  *TracingCollectorSpy
	record *SpanRecord
}

func (s *spanSpy) SetStatus(status string) {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()

	s.record.Status = status
}

func (s *spanSpy) AddAttribute(key, value string) {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()

	s.record.Attrs[key] = value
}
