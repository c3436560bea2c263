package scan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/apparelops/lot-tracker/internal/models"
)

// fakeSeller sells from a fixed stock count and records every call.
type fakeSeller struct {
	mu    sync.Mutex
	stock map[string]int
	sold  map[string]int
	calls int
}

var errNotFound = errors.New("product not found")
var errOutOfStock = errors.New("product out of stock")

func newFakeSeller(stock map[string]int) *fakeSeller {
	return &fakeSeller{stock: stock, sold: map[string]int{}}
}

func (f *fakeSeller) Sell(ctx context.Context, productCode string) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	stock, ok := f.stock[productCode]
	if !ok {
		return models.Product{}, errNotFound
	}
	if stock == 0 {
		return models.Product{Code: productCode}, errOutOfStock
	}
	f.stock[productCode]--
	f.sold[productCode]++
	return models.Product{Code: productCode, Stock: f.stock[productCode], Sold: f.sold[productCode]}, nil
}

func (f *fakeSeller) soldCount(productCode string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sold[productCode]
}

type fakeFeedback struct {
	mu       sync.Mutex
	accepted []string
	rejected []string
}

func (f *fakeFeedback) Accepted(p models.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accepted = append(f.accepted, p.Code)
}

func (f *fakeFeedback) Rejected(payload string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejected = append(f.rejected, payload)
}

func (f *fakeFeedback) Countdown(remaining time.Duration) {}

func (f *fakeFeedback) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.accepted), len(f.rejected)
}

type fakeRecorder struct {
	mu                          sync.Mutex
	accepted, rejected, ignored int
	sessions                    int
}

func (f *fakeRecorder) RecordScanAccepted() { f.mu.Lock(); f.accepted++; f.mu.Unlock() }
func (f *fakeRecorder) RecordScanRejected() { f.mu.Lock(); f.rejected++; f.mu.Unlock() }
func (f *fakeRecorder) RecordScanIgnored()  { f.mu.Lock(); f.ignored++; f.mu.Unlock() }
func (f *fakeRecorder) RecordSale()         {}
func (f *fakeRecorder) RecordSessionStarted() {
	f.mu.Lock()
	f.sessions++
	f.mu.Unlock()
}
func (f *fakeRecorder) RecordSessionStopped() {
	f.mu.Lock()
	f.sessions--
	f.mu.Unlock()
}

func (f *fakeRecorder) ignoredCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ignored
}

func shortConfig() Config {
	return Config{SaleCooldown: 40 * time.Millisecond, FailureCooldown: 20 * time.Millisecond}
}

func newTestSession(seller Seller, feedback Feedback, metrics Recorder) (*Session, *ChannelDecoder) {
	decoder := NewChannelDecoder()
	return NewSession("test", seller, decoder, feedback, metrics, shortConfig()), decoder
}

func waitForState(t *testing.T, s *Session, want string) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		if state, _ := s.State(); state == want {
			return
		}
		select {
		case <-deadline:
			state, _ := s.State()
			t.Fatalf("timed out waiting for state %q, still %q", want, state)
		case <-time.After(2 * time.Millisecond):
		}
	}
}

func TestSession_StartStopTransitions(t *testing.T) {
	seller := newFakeSeller(map[string]int{"HOOD-MXX-BLA-777": 5})
	session, _ := newTestSession(seller, &fakeFeedback{}, &fakeRecorder{})

	if state, _ := session.State(); state != StateIdle {
		t.Fatalf("new session should be idle, got %q", state)
	}

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if state, _ := session.State(); state != StateReady {
		t.Fatalf("started session should be ready, got %q", state)
	}

	if err := session.Start(context.Background()); !errors.Is(err, ErrAlreadyActive) {
		t.Errorf("second start should report already active, got %v", err)
	}

	session.Stop()
	if state, _ := session.State(); state != StateStopped {
		t.Fatalf("stopped session should be stopped, got %q", state)
	}

	// A stopped session can be restarted.
	decoder := NewChannelDecoder()
	session.decoder = decoder
	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	session.Stop()
}

func TestSession_AcceptedDecodeSellsAndCoolsDown(t *testing.T) {
	seller := newFakeSeller(map[string]int{"HOOD-MXX-BLA-777": 5})
	feedback := &fakeFeedback{}
	session, decoder := newTestSession(seller, feedback, &fakeRecorder{})

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer session.Stop()

	decoder.Feed("HOOD-MXX-BLA-777")
	waitForState(t, session, StateCooldown)

	if got := seller.soldCount("HOOD-MXX-BLA-777"); got != 1 {
		t.Errorf("expected exactly one sale, got %d", got)
	}
	if accepted, rejected := feedback.counts(); accepted != 1 || rejected != 0 {
		t.Errorf("expected positive feedback only, got accepted=%d rejected=%d", accepted, rejected)
	}

	// Cooldown expires back to ready.
	waitForState(t, session, StateReady)
}

func TestSession_RejectedDecodeUsesShorterCooldown(t *testing.T) {
	seller := newFakeSeller(map[string]int{})
	feedback := &fakeFeedback{}
	session, decoder := newTestSession(seller, feedback, &fakeRecorder{})

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer session.Stop()

	decoder.Feed("UNKNOWN-CODE")
	waitForState(t, session, StateCooldown)

	_, remaining := session.State()
	if remaining > shortConfig().FailureCooldown {
		t.Errorf("failure cooldown should be the shorter window, got %v", remaining)
	}
	if accepted, rejected := feedback.counts(); accepted != 0 || rejected != 1 {
		t.Errorf("expected negative feedback only, got accepted=%d rejected=%d", accepted, rejected)
	}

	waitForState(t, session, StateReady)
}

func TestSession_CooldownDropsDecodes(t *testing.T) {
	seller := newFakeSeller(map[string]int{"HOOD-MXX-BLA-777": 5})
	metrics := &fakeRecorder{}
	session, decoder := newTestSession(seller, &fakeFeedback{}, metrics)

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer session.Stop()

	decoder.Feed("HOOD-MXX-BLA-777")
	waitForState(t, session, StateCooldown)

	// Rapid rescans during the window must be dropped, not queued.
	decoder.Feed("HOOD-MXX-BLA-777")
	decoder.Feed("HOOD-MXX-BLA-777")

	deadline := time.After(time.Second)
	for metrics.ignoredCount() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected 2 ignored decodes, got %d", metrics.ignoredCount())
		case <-time.After(2 * time.Millisecond):
		}
	}

	if got := seller.soldCount("HOOD-MXX-BLA-777"); got != 1 {
		t.Errorf("cooldown must prevent double sales, got %d", got)
	}

	// After expiry the next decode is accepted again.
	waitForState(t, session, StateReady)
	decoder.Feed("HOOD-MXX-BLA-777")
	waitForState(t, session, StateCooldown)
	if got := seller.soldCount("HOOD-MXX-BLA-777"); got != 2 {
		t.Errorf("expected second sale after cooldown, got %d", got)
	}
}

func TestManager_Lifecycle(t *testing.T) {
	seller := newFakeSeller(map[string]int{"HOOD-MXX-BLA-777": 3})
	metrics := &fakeRecorder{}
	m := NewManager(seller, metrics, shortConfig())

	session, err := m.StartSession(context.Background())
	if err != nil {
		t.Fatalf("start session failed: %v", err)
	}
	if session.ID == "" {
		t.Error("expected a session ID")
	}

	if _, err := m.Get(session.ID); err != nil {
		t.Errorf("get failed: %v", err)
	}
	if _, err := m.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}

	if err := m.Feed(session.ID, "HOOD-MXX-BLA-777"); err != nil {
		t.Errorf("feed failed: %v", err)
	}
	waitForState(t, session, StateCooldown)

	if err := m.StopSession(session.ID); err != nil {
		t.Errorf("stop failed: %v", err)
	}
	if err := m.Feed(session.ID, "HOOD-MXX-BLA-777"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("feeding a stopped session should fail with not found, got %v", err)
	}
}
