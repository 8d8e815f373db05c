package handler

import (
	"bytes"
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/feishu-order-notify/internal/domain"
	"github.com/kursadbilgin/feishu-order-notify/internal/service"
	"github.com/kursadbilgin/feishu-order-notify/internal/transport"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type stubSettingsService struct {
	currentFn   func(ctx context.Context) (domain.Settings, error)
	formFn      func(ctx context.Context) (domain.Settings, error)
	saveFn      func(ctx context.Context, input domain.Settings) (domain.Settings, error)
	uninstallFn func(ctx context.Context) error
	activityFn  func(ctx context.Context) ([]domain.DispatchOutcome, error)
	diagnostics service.SettingsDiagnostics
}

func (s *stubSettingsService) Current(ctx context.Context) (domain.Settings, error) {
	if s.currentFn != nil {
		return s.currentFn(ctx)
	}
	return domain.Settings{}, nil
}

func (s *stubSettingsService) Form(ctx context.Context) (domain.Settings, error) {
	if s.formFn != nil {
		return s.formFn(ctx)
	}
	return domain.Settings{}, nil
}

func (s *stubSettingsService) Save(ctx context.Context, input domain.Settings) (domain.Settings, error) {
	if s.saveFn != nil {
		return s.saveFn(ctx, input)
	}
	return input, nil
}

func (s *stubSettingsService) Uninstall(ctx context.Context) error {
	if s.uninstallFn != nil {
		return s.uninstallFn(ctx)
	}
	return nil
}

func (s *stubSettingsService) Activity(ctx context.Context) ([]domain.DispatchOutcome, error) {
	if s.activityFn != nil {
		return s.activityFn(ctx)
	}
	return nil, nil
}

func (s *stubSettingsService) Diagnose(domain.Settings) service.SettingsDiagnostics {
	return s.diagnostics
}

type stubTestSender struct {
	sendFn func(ctx context.Context, settings domain.Settings) error
	calls  int
}

func (s *stubTestSender) SendTest(ctx context.Context, settings domain.Settings) error {
	s.calls++
	if s.sendFn != nil {
		return s.sendFn(ctx, settings)
	}
	return nil
}

type stubListener struct {
	onChangeFn func(ctx context.Context, orderID, from, to string, order domain.OrderRecord) *domain.DispatchOutcome
	calls      int
}

func (l *stubListener) OnOrderStatusChanged(
	ctx context.Context,
	orderID string,
	from string,
	to string,
	order domain.OrderRecord,
) *domain.DispatchOutcome {
	l.calls++
	if l.onChangeFn != nil {
		return l.onChangeFn(ctx, orderID, from, to, order)
	}
	return nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: transport.ErrorHandler(zap.NewNop()),
	})
	app.Use(transport.RequestID())
	return app
}

func performRequest(t *testing.T, app *fiber.App, method string, path string, body string) (*http.Response, []byte) {
	t.Helper()
	return doRequest(t, app, newJSONRequest(method, path, body))
}

func newJSONRequest(method string, path string, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	_ = resp.Body.Close()

	return resp, respBody
}

type stubConnector struct {
	pingErr error
}

func (c stubConnector) Connect(context.Context) (driver.Conn, error) {
	return stubConn(c), nil
}

func (c stubConnector) Driver() driver.Driver {
	return stubDriver(c)
}

type stubDriver struct {
	pingErr error
}

func (d stubDriver) Open(string) (driver.Conn, error) {
	return stubConn(d), nil
}

type stubConn struct {
	pingErr error
}

func (c stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not implemented") }
func (c stubConn) Close() error                        { return nil }
func (c stubConn) Begin() (driver.Tx, error)           { return nil, errors.New("not implemented") }
func (c stubConn) Ping(context.Context) error          { return c.pingErr }

type stubRedisHook struct {
	pingErr error
}

func (h stubRedisHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h stubRedisHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if strings.EqualFold(cmd.Name(), "ping") && h.pingErr != nil {
			cmd.SetErr(h.pingErr)
			return h.pingErr
		}
		cmd.SetErr(nil)
		return nil
	}
}

func (h stubRedisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			cmd.SetErr(nil)
		}
		return nil
	}
}

func newStubRedisClient(pingErr error) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         "127.0.0.1:6379",
		DialTimeout:  time.Millisecond,
		ReadTimeout:  time.Millisecond,
		WriteTimeout: time.Millisecond,
	})
	rdb.AddHook(stubRedisHook{pingErr: pingErr})
	return rdb
}
