package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type shareResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	Path      string `json:"path"`
	ExpiresAt string `json:"expiresAt"`
}

func TestShareRoutesAreNotRegisteredWithoutSecret(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, newTestHandler(t, "en"))
	response := doRequest(t, app, jsonRequest(http.MethodPost, "/api/share", `{"last_period":"2024-01-01"}`))
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", response.StatusCode)
	}
}

func TestShareRoundTripRecomputesWithCurrentDate(t *testing.T) {
	t.Parallel()

	now := testNow
	handler := newTestHandler(t, "en").
		WithShareTokens(testShareSecret, 24*time.Hour).
		WithClock(func() time.Time { return now })
	app := newTestApp(t, handler)

	created := doRequest(t, app, jsonRequest(http.MethodPost, "/api/share", `{"last_period":"2024-01-01","cycle_length":30}`))
	if created.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", created.StatusCode)
	}
	share := shareResponse{}
	decodeJSON(t, created.Body, &share)
	if !share.Success || share.Token == "" {
		t.Fatalf("expected share token, got %+v", share)
	}
	if share.ExpiresAt != "2024-03-02T09:30:00Z" {
		t.Fatalf("expected expiry one day ahead, got %q", share.ExpiresAt)
	}

	opened := doRequest(t, app, httptest.NewRequest(http.MethodGet, share.Path, nil))
	if opened.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", opened.StatusCode)
	}
	view := decodeCalculation(t, opened).Data
	if view.DueDate != "2024-10-09" || view.GestationalAgeDays != 60 {
		t.Fatalf("unexpected shared view: due %s, age %d", view.DueDate, view.GestationalAgeDays)
	}

	now = testNow.Add(7 * 24 * time.Hour)
	expired := doRequest(t, app, httptest.NewRequest(http.MethodGet, share.Path, nil))
	if expired.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400 for expired token, got %d", expired.StatusCode)
	}
	if message, _ := readAPIError(t, expired); message != "This link is invalid or has expired." {
		t.Fatalf("expected invalid share token message, got %q", message)
	}
}

func TestShareRejectsInvalidInputWithoutIssuingToken(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, "en").WithShareTokens(testShareSecret, time.Hour)
	app := newTestApp(t, handler)

	response := doRequest(t, app, jsonRequest(http.MethodPost, "/api/share", `{"last_period":"2099-01-01"}`))
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", response.StatusCode)
	}
	message, payload := readAPIError(t, response)
	if message != "Last menstrual period date cannot be in the future." {
		t.Fatalf("expected future date message, got %q", message)
	}
	if _, hasToken := payload["token"]; hasToken {
		t.Fatalf("expected no token for invalid input")
	}
}

func TestSharedCalculationRejectsTamperedToken(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, "en").WithShareTokens(testShareSecret, time.Hour)
	app := newTestApp(t, handler)

	response := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/shared/not.a.token", nil))
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", response.StatusCode)
	}
	if message, _ := readAPIError(t, response); message != "This link is invalid or has expired." {
		t.Fatalf("expected invalid share token message, got %q", message)
	}
}
