package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireAPIKeyPassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	handler := RequireAPIKey("secret")(next)
	req := httptest.NewRequest(http.MethodPost, "/message", nil)
	req.Header.Set("x-api-key", "secret")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected downstream status, got %d", rr.Code)
	}
}

func TestRequireAPIKeyRejectsMismatch(t *testing.T) {
	handler := RequireAPIKey("secret")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("downstream handler should not run")
	}))
	req := httptest.NewRequest(http.MethodPost, "/message", nil)
	req.Header.Set("x-api-key", "wrong")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for bad key, got %d", rr.Code)
	}
}

func TestRequireAPIKeyRejectsMissingHeader(t *testing.T) {
	handler := RequireAPIKey("secret")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("downstream handler should not run")
	}))
	req := httptest.NewRequest(http.MethodPost, "/message", nil)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for missing key, got %d", rr.Code)
	}
}

func TestRequireAPIKeyEmptySecretIsNoOp(t *testing.T) {
	handler := RequireAPIKey("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodPost, "/message", nil)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through with empty secret, got %d", rr.Code)
	}
}
