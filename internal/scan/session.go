// Package scan drives point-of-sale scanning: each decoded payload sells
// one unit, then the session sits in a cooldown window so one physical
// scan cannot sell twice.
package scan

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/apparelops/lot-tracker/internal/models"
)

// Session states.
const (
	StateIdle     = "idle"
	StateReady    = "active-ready"
	StateCooldown = "active-cooldown"
	StateStopped  = "stopped"
)

var (
	// ErrAlreadyActive is returned when starting a session that is
	// already decoding.
	ErrAlreadyActive = errors.New("scan session already active")
	// ErrSessionStopped is returned when feeding a stopped session.
	ErrSessionStopped = errors.New("scan session stopped")
)

// Seller is the slice of the inventory store a session needs. Sell must be
// atomic per code; InventoryRepository satisfies that with its mutex.
type Seller interface {
	Sell(ctx context.Context, code string) (models.Product, error)
}

// Decoder is the camera-side collaborator: started, it emits decoded text
// payloads until stopped or the context ends.
type Decoder interface {
	Start(ctx context.Context) (<-chan string, error)
	Stop()
}

// Feedback receives the operator-facing signals: a sale went through, a
// scan was rejected, a cooldown is counting down.
type Feedback interface {
	Accepted(p models.Product)
	Rejected(payload string, err error)
	Countdown(remaining time.Duration)
}

// Recorder is the metrics surface the session reports to.
type Recorder interface {
	RecordScanAccepted()
	RecordScanRejected()
	RecordScanIgnored()
	RecordSale()
	RecordSessionStarted()
	RecordSessionStopped()
}

// Config holds the two cooldown windows. A successful sale gets the
// longer window so the operator has time to pick up the next item.
type Config struct {
	SaleCooldown    time.Duration
	FailureCooldown time.Duration
}

// DefaultConfig is 2 s after a sale, 1 s after a failed scan.
func DefaultConfig() Config {
	return Config{SaleCooldown: 2 * time.Second, FailureCooldown: time.Second}
}

// Session is the scan state machine. The mutex makes the cooldown check
// and the sale a single atomic step relative to each decode, so two rapid
// decodes can never both be accepted.
type Session struct {
	ID string

	mu            sync.Mutex
	state         string
	cooldownUntil time.Time

	seller   Seller
	decoder  Decoder
	feedback Feedback
	metrics  Recorder
	cfg      Config

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSession(id string, seller Seller, decoder Decoder, feedback Feedback, metrics Recorder, cfg Config) *Session {
	return &Session{
		ID:       id,
		state:    StateIdle,
		seller:   seller,
		decoder:  decoder,
		feedback: feedback,
		metrics:  metrics,
		cfg:      cfg,
	}
}

// Start begins consuming decoded payloads. Valid from idle or stopped.
// A decoder that cannot start (camera missing or denied) surfaces its
// error here; the session stays idle and the rest of the app keeps going.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle && s.state != StateStopped {
		s.mu.Unlock()
		return ErrAlreadyActive
	}

	payloads, err := s.decoder.Start(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.state = StateReady
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.run(ctx, payloads)
	return nil
}

// Stop ends decoding from any active state.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state == StateIdle || s.state == StateStopped {
		s.mu.Unlock()
		return
	}
	s.state = StateStopped
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	s.decoder.Stop()
	<-done
}

// State reports the current state and, during a cooldown, the time left.
func (s *Session) State() (string, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateCooldown {
		if remaining := time.Until(s.cooldownUntil); remaining > 0 {
			return s.state, remaining
		}
	}
	return s.state, 0
}

func (s *Session) run(ctx context.Context, payloads <-chan string) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-payloads:
			if !ok {
				return
			}
			s.handleDecode(ctx, payload)
		}
	}
}

// handleDecode holds the session mutex across the cooldown check and the
// sale. Decodes that land during a cooldown are dropped, not queued.
func (s *Session) handleDecode(ctx context.Context, payload string) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		s.metrics.RecordScanIgnored()
		return
	}

	product, err := s.seller.Sell(ctx, payload)

	window := s.cfg.SaleCooldown
	if err != nil {
		window = s.cfg.FailureCooldown
	}
	s.state = StateCooldown
	s.cooldownUntil = time.Now().Add(window)
	s.mu.Unlock()

	if err != nil {
		s.metrics.RecordScanRejected()
		s.feedback.Rejected(payload, err)
	} else {
		s.metrics.RecordScanAccepted()
		s.metrics.RecordSale()
		s.feedback.Accepted(product)
	}

	time.AfterFunc(window, s.endCooldown)
	go s.countdown(ctx, window)
}

func (s *Session) endCooldown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateCooldown && !time.Now().Before(s.cooldownUntil) {
		s.state = StateReady
	}
}

// countdown reports the remaining cooldown at one-second granularity.
func (s *Session) countdown(ctx context.Context, window time.Duration) {
	s.feedback.Countdown(window)
	if window <= time.Second {
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			state, remaining := s.State()
			if state != StateCooldown || remaining <= 0 {
				return
			}
			s.feedback.Countdown(remaining.Round(time.Second))
		}
	}
}
