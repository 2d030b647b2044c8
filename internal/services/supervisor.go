package services

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// ConsumerRunner is one consumer lifecycle as the supervisor sees it: started
// elsewhere, finished when Done closes.
type ConsumerRunner interface {
	Done() <-chan struct{}
}

// Supervisor keeps a consumer subscribed for the life of the process. A
// failed ack leaves the AMQP channel unusable and ends the consume loop, so
// when the loop exits outside shutdown the supervisor restarts the transport
// connection and subscribes a fresh consumer.
type Supervisor struct {
	start   func(ctx context.Context) (ConsumerRunner, error)
	restart func() error
	delay   time.Duration
	logger  *slog.Logger

	healthy atomic.Bool
	done    chan struct{}
}

// NewSupervisor creates a Supervisor. start must create and subscribe a new
// consumer; restart must re-establish the transport before the next start.
func NewSupervisor(
	start func(ctx context.Context) (ConsumerRunner, error),
	restart func() error,
	delay time.Duration,
	logger *slog.Logger,
) *Supervisor {
	return &Supervisor{
		start:   start,
		restart: restart,
		delay:   delay,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Run blocks until ctx is cancelled and the current consumer has drained.
func (s *Supervisor) Run(ctx context.Context) {
	defer close(s.done)
	defer s.healthy.Store(false)

	current, err := s.start(ctx)
	for {
		if err != nil {
			s.healthy.Store(false)
			s.logger.Error("consumer start failed", slog.Any("error", err))
			if !s.pause(ctx) {
				return
			}
			current, err = s.restartAndStart(ctx)
			continue
		}
		s.healthy.Store(true)

		select {
		case <-ctx.Done():
			<-current.Done()
			return
		case <-current.Done():
		}
		if ctx.Err() != nil {
			return
		}

		s.healthy.Store(false)
		s.logger.Warn("consumer stopped unexpectedly, restarting connection")
		if !s.pause(ctx) {
			return
		}
		current, err = s.restartAndStart(ctx)
	}
}

// Healthy reports whether a consumer is currently subscribed. Readiness
// probes use this so a dead pipeline takes the service out of rotation.
func (s *Supervisor) Healthy() bool {
	return s.healthy.Load()
}

// Done is closed once the supervisor has stopped and the last consumer
// drained.
func (s *Supervisor) Done() <-chan struct{} {
	return s.done
}

func (s *Supervisor) restartAndStart(ctx context.Context) (ConsumerRunner, error) {
	if err := s.restart(); err != nil {
		return nil, err
	}
	return s.start(ctx)
}

func (s *Supervisor) pause(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(s.delay):
		return true
	}
}
