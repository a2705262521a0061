package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/observability"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(errorHandlingMiddleware(zap.NewNop(), observability.NewMetrics()))
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string) (int, errorEnvelope) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	return resp.StatusCode, envelope
}

func TestErrorEnvelope(t *testing.T) {
	app := newTestApp()
	app.Get("/missing", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": "t-1"})
	})
	app.Get("/invalid", func(c *fiber.Ctx) error {
		return apperrors.NewValidationError("invalid priority", map[string]any{"priority": "urgent"})
	})
	app.Get("/forbidden", func(c *fiber.Ctx) error {
		return apperrors.NewForbidden("access denied")
	})

	tests := []struct {
		path       string
		wantStatus int
		wantCode   string
	}{
		{"/missing", http.StatusNotFound, "NOT_FOUND"},
		{"/invalid", http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		{"/forbidden", http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, envelope := doRequest(t, app, http.MethodGet, tt.path)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
			assert.NotEmpty(t, envelope.Error.Message)
		})
	}
}

func TestPanicRecovery(t *testing.T) {
	app := newTestApp()
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("unexpected")
	})

	status, envelope := doRequest(t, app, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", envelope.Error.Code)
}

func TestUnknownErrorsAreOpaque(t *testing.T) {
	app := newTestApp()
	app.Get("/oops", func(c *fiber.Ctx) error {
		return io.ErrUnexpectedEOF
	})

	status, envelope := doRequest(t, app, http.MethodGet, "/oops")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", envelope.Error.Code)
	assert.Equal(t, "internal server error", envelope.Error.Message)
}
