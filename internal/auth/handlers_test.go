package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) (*fiber.App, *Service, pgxmock.PgxPoolIface) {
	t.Helper()
	svc, mock, _ := newTestService(t)
	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), svc)
	return app, svc, mock
}

func TestCodeHandler(t *testing.T) {
	app, _, _ := newTestApp(t)
	withCode(t, "1234")

	body, _ := json.Marshal(CodeRequest{PhoneNumber: "+79991234567"})
	req := httptest.NewRequest(http.MethodPost, "/auth/code", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusNoContent {
		t.Fatalf("code status: %v %d", err, resp.StatusCode)
	}
}

func TestCodeHandlerBadRequest(t *testing.T) {
	app, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/code", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestVerifyHandler(t *testing.T) {
	app, svc, mock := newTestApp(t)
	withCode(t, "1234")

	if err := svc.RequestCode(context.Background(), "+79991234567"); err != nil {
		t.Fatalf("request code: %v", err)
	}

	mock.ExpectQuery(`SELECT id, phone_number, preferences, created_at`).
		WithArgs("+79991234567").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "+79991234567", []string{}).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	body, _ := json.Marshal(VerifyRequest{PhoneNumber: "+79991234567", Code: "1234"})
	req := httptest.NewRequest(http.MethodPost, "/auth/verify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("verify status: %v %d", err, resp.StatusCode)
	}

	var payload struct {
		Tokens TokenResponse `json:"tokens"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Tokens.AccessToken == "" {
		t.Fatalf("expected access token")
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/jwt/verify", nil)
	req.Header.Set("Authorization", "Bearer "+payload.Tokens.AccessToken)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("jwt verify status: %v %d", err, resp.StatusCode)
	}
}

func TestVerifyHandlerWrongCode(t *testing.T) {
	app, svc, _ := newTestApp(t)
	withCode(t, "1234")

	if err := svc.RequestCode(context.Background(), "+79991234567"); err != nil {
		t.Fatalf("request code: %v", err)
	}

	body, _ := json.Marshal(VerifyRequest{PhoneNumber: "+79991234567", Code: "0000"})
	req := httptest.NewRequest(http.MethodPost, "/auth/verify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestVerifyHandlerBadRequest(t *testing.T) {
	app, _, _ := newTestApp(t)

	for _, payload := range []string{`{}`, `{"phone_number":"+7999"}`, `{`} {
		req := httptest.NewRequest(http.MethodPost, "/auth/verify", bytes.NewReader([]byte(payload)))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil || resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", payload, resp.StatusCode)
		}
	}
}

func TestJWTVerifyHandlerMissingToken(t *testing.T) {
	app, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/jwt/verify", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
