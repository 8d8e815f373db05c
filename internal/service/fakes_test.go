package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/kursadbilgin/feishu-order-notify/internal/domain"
	"github.com/kursadbilgin/feishu-order-notify/internal/provider"
)

const (
	testHookPath = "/open-apis/bot/v2/hook/"
	testSuffix   = "ca95b85c-2da0-4c58-a06d-96f80579c476"
)

type fakeActivityStore struct {
	mu        sync.Mutex
	entries   []domain.DispatchOutcome
	appendErr error
	clearErr  error
	cleared   bool
}

func (s *fakeActivityStore) Append(ctx context.Context, outcome domain.DispatchOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.entries = append([]domain.DispatchOutcome{outcome}, s.entries...)
	return nil
}

func (s *fakeActivityStore) ReadAll(ctx context.Context) ([]domain.DispatchOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.DispatchOutcome, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *fakeActivityStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearErr != nil {
		return s.clearErr
	}
	s.entries = nil
	s.cleared = true
	return nil
}

func (s *fakeActivityStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

type fakeSettingsRepo struct {
	getFn     func(ctx context.Context) (*domain.Settings, error)
	saved     *domain.Settings
	saveErr   error
	deleteErr error
	deleted   bool
}

func (r *fakeSettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	if r.getFn != nil {
		return r.getFn(ctx)
	}
	if r.saved != nil {
		copied := *r.saved
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeSettingsRepo) Save(ctx context.Context, s *domain.Settings) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	copied := *s
	r.saved = &copied
	return nil
}

func (r *fakeSettingsRepo) Delete(ctx context.Context) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.saved = nil
	r.deleted = true
	return nil
}

type fakeSettingsReader struct {
	settings domain.Settings
	err      error
	calls    int
}

func (r *fakeSettingsReader) Current(ctx context.Context) (domain.Settings, error) {
	r.calls++
	return r.settings, r.err
}

type fakeDispatcher struct {
	calls     int
	settings  domain.Settings
	snapshot  domain.OrderSnapshot
	dispatchF func(settings domain.Settings, snapshot domain.OrderSnapshot) *domain.DispatchOutcome
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, settings domain.Settings, snapshot domain.OrderSnapshot) *domain.DispatchOutcome {
	d.calls++
	d.settings = settings
	d.snapshot = snapshot
	if d.dispatchF != nil {
		return d.dispatchF(settings, snapshot)
	}
	return &domain.DispatchOutcome{Result: domain.ResultSuccess, OrderID: snapshot.OrderID}
}

// feishuStub is a fake Feishu endpoint that counts requests.
type feishuStub struct {
	mu         sync.Mutex
	requests   int
	paths      []string
	statusCode int
	body       string
	delay      time.Duration
}

func (f *feishuStub) handler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests++
	f.paths = append(f.paths, r.URL.Path)
	statusCode, body, delay := f.statusCode, f.body, f.delay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

func (f *feishuStub) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *feishuStub) lastPath() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.paths) == 0 {
		return ""
	}
	return f.paths[len(f.paths)-1]
}

func newStubProvider(t *testing.T, stub *feishuStub, timeout time.Duration) *provider.FeishuProvider {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(stub.handler))
	t.Cleanup(server.Close)

	p, err := provider.NewFeishuProvider(server.URL+testHookPath, timeout)
	if err != nil {
		t.Fatalf("NewFeishuProvider() error = %v", err)
	}
	return p
}
