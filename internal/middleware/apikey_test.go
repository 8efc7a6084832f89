package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func newProtectedHandler(apiKey string) (http.Handler, *bool) {
	reached := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	})
	return APIKeyMiddleware(apiKey, zap.NewNop())(inner), &reached
}

func TestAPIKeyMiddleware_MissingKeyReturns401(t *testing.T) {
	handler, reached := newProtectedHandler("secret")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
	if *reached {
		t.Error("Request without API key must not reach the handler")
	}
}

func TestAPIKeyMiddleware_WrongKeyReturns401(t *testing.T) {
	handler, reached := newProtectedHandler("secret")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", nil)
	req.Header.Set(APIKeyHeader, "not-the-secret")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
	if *reached {
		t.Error("Request with wrong API key must not reach the handler")
	}
}

func TestAPIKeyMiddleware_CorrectKeyPassesThrough(t *testing.T) {
	handler, reached := newProtectedHandler("secret")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", nil)
	req.Header.Set(APIKeyHeader, "secret")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", w.Code)
	}
	if !*reached {
		t.Error("Request with correct API key must reach the handler")
	}
}
