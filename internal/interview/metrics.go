package interview

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// Metrics counts lifecycle events. A nil *Metrics records nothing.
type Metrics struct {
	started   metric.Int64Counter
	completed metric.Int64Counter
	abandoned metric.Int64Counter
	answers   metric.Int64Counter
	timeouts  metric.Int64Counter
}

// NewMetrics registers the interview counters on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var m Metrics
	var err error
	if m.started, err = meter.Int64Counter("interview.sessions.started",
		metric.WithDescription("Sessions that reached LIVE")); err != nil {
		return nil, err
	}
	if m.completed, err = meter.Int64Counter("interview.sessions.completed",
		metric.WithDescription("Sessions that reached COMPLETED")); err != nil {
		return nil, err
	}
	if m.abandoned, err = meter.Int64Counter("interview.sessions.abandoned",
		metric.WithDescription("Sessions left before completion")); err != nil {
		return nil, err
	}
	if m.answers, err = meter.Int64Counter("interview.answers.submitted",
		metric.WithDescription("Answers accepted by the backend")); err != nil {
		return nil, err
	}
	if m.timeouts, err = meter.Int64Counter("interview.question.timeouts",
		metric.WithDescription("First question fetches that timed out")); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Metrics) add(c metric.Int64Counter) {
	if m == nil {
		return
	}
	c.Add(context.Background(), 1)
}

func (m *Metrics) sessionStarted() {
	if m != nil {
		m.add(m.started)
	}
}

func (m *Metrics) sessionCompleted() {
	if m != nil {
		m.add(m.completed)
	}
}

func (m *Metrics) sessionAbandoned() {
	if m != nil {
		m.add(m.abandoned)
	}
}

func (m *Metrics) answerSubmitted() {
	if m != nil {
		m.add(m.answers)
	}
}

func (m *Metrics) questionTimeout() {
	if m != nil {
		m.add(m.timeouts)
	}
}
