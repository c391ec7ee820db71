package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/terraincognita07/pregcalc/internal/i18n"
	"github.com/terraincognita07/pregcalc/internal/reference"
	"github.com/terraincognita07/pregcalc/internal/views"
)

const testShareSecret = "0123456789abcdef0123456789abcdef"

var testNow = time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

type calculationResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Data    views.Calculation `json:"data"`
}

func newTestHandler(t *testing.T, defaultLanguage string) *Handler {
	t.Helper()

	tables, err := reference.Default()
	if err != nil {
		t.Fatalf("load default tables: %v", err)
	}
	manager, err := i18n.NewEmbeddedManager(defaultLanguage)
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}
	handler, err := NewHandler(tables, manager, time.UTC, zerolog.Nop())
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	return handler.WithClock(func() time.Time { return testNow })
}

func newTestApp(t *testing.T, handler *Handler) *fiber.App {
	t.Helper()
	return NewApp(handler, zerolog.Nop())
}

func doRequest(t *testing.T, app *fiber.App, request *http.Request) *http.Response {
	t.Helper()

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func jsonRequest(method string, target string, body string) *http.Request {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return request
}

func formRequest(method string, target string, body string) *http.Request {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return request
}

func decodeJSON(t *testing.T, body io.Reader, target any) {
	t.Helper()

	payload, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		t.Fatalf("decode response body %q: %v", string(payload), err)
	}
}

func decodeCalculation(t *testing.T, response *http.Response) calculationResponse {
	t.Helper()

	decoded := calculationResponse{}
	decodeJSON(t, response.Body, &decoded)
	return decoded
}

func readAPIError(t *testing.T, response *http.Response) (string, map[string]any) {
	t.Helper()

	payload := map[string]any{}
	decodeJSON(t, response.Body, &payload)
	message, _ := payload["error"].(string)
	return message, payload
}

func responseCookieValue(cookies []*http.Cookie, name string) string {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}
