package mailer

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type instrumentedSender struct {
	next      Sender
	transport string
	sent      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// Instrumented wraps next with dispatch counters and latency histograms
// registered on reg.
func Instrumented(next Sender, transport string, reg prometheus.Registerer) (Sender, error) {
	s := &instrumentedSender{
		next:      next,
		transport: transport,
		sent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mail_dispatch_total",
				Help: "Total number of outbound mail dispatches by result.",
			},
			[]string{"transport", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mail_dispatch_duration_seconds",
				Help:    "Outbound mail dispatch latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"transport"},
		),
	}

	if err := reg.Register(s.sent); err != nil {
		return nil, err
	}
	if err := reg.Register(s.duration); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *instrumentedSender) Send(ctx context.Context, msg Message) (Ack, error) {
	start := time.Now()
	ack, err := s.next.Send(ctx, msg)
	s.duration.WithLabelValues(s.transport).Observe(time.Since(start).Seconds())

	status := "success"
	if err != nil {
		status = "failure"
	}
	s.sent.WithLabelValues(s.transport, status).Inc()

	return ack, err
}
