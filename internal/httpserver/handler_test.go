package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"qametrics-assistant/pkg/response"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

// panicHandler blows up on the blocking endpoint so the recovery
// middleware can be observed from the outside.
type panicHandler struct{}

func (panicHandler) Chat(c *gin.Context)       { panic("handler exploded") }
func (panicHandler) ChatStream(c *gin.Context) { c.Status(http.StatusOK) }

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()

	srv, err := New(&mockLogger{}, Config{
		Logger:           &mockLogger{},
		Port:             8080,
		Mode:             gin.TestMode,
		Environment:      "test",
		AssistantHandler: panicHandler{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := srv.mapHandlers(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return srv
}

func TestPanicRecoveryEnvelope(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant/chat",
		strings.NewReader(`{"user_id":"u1","message":"oi"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.gin.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var resp response.Resp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not the standard envelope: %v", err)
	}
	if resp.ErrorCode != response.InternalServerErrorCode || resp.Message != response.DefaultErrorMessage {
		t.Errorf("unexpected envelope: %+v", resp)
	}
	if strings.Contains(w.Body.String(), "handler exploded") {
		t.Errorf("panic detail must not reach the client: %s", w.Body.String())
	}
}

func TestHealthRoute(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.gin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), HealthMessage) {
		t.Errorf("health body missing service message: %s", w.Body.String())
	}
}
