package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gallerie/storefront/internal/apperr"
)

func gatewayStub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /transaction/initialize", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk_test_secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"status": false, "message": "Invalid key"})
			return
		}

		var body struct {
			Email  string `json:"email"`
			Amount int64  `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if body.Email == "" || body.Amount <= 0 {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"status": false, "message": "Invalid amount"})
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]any{
				"authorization_url": "https://checkout.example/abc123",
				"access_code":       "abc123",
				"reference":         "ref_1",
			},
		})
	})

	mux.HandleFunc("GET /transaction/verify/{reference}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("reference") {
		case "ref_1":
			json.NewEncoder(w).Encode(map[string]any{
				"status":  true,
				"message": "Verification successful",
				"data": map[string]any{
					"status":    "success",
					"reference": "ref_1",
					"amount":    125000,
					"currency":  "NGN",
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"status": false, "message": "Transaction reference not found"})
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestInitialize(t *testing.T) {
	srv := gatewayStub(t)
	c := NewClient("sk_test_secret", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	res, err := c.Initialize(context.Background(), InitializeInput{
		Email:       "buyer@shop.com",
		AmountMinor: 125000,
		Currency:    "NGN",
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if res.AuthorizationURL != "https://checkout.example/abc123" {
		t.Fatalf("authorization url = %q", res.AuthorizationURL)
	}
	if res.AccessCode != "abc123" || res.Reference != "ref_1" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestInitializeValidation(t *testing.T) {
	c := NewClient("sk_test_secret")

	_, err := c.Initialize(context.Background(), InitializeInput{AmountMinor: 100})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("missing email: got %v", err)
	}

	_, err = c.Initialize(context.Background(), InitializeInput{Email: "a@b.com", AmountMinor: 0})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("zero amount: got %v", err)
	}
}

func TestInitializeBadKey(t *testing.T) {
	srv := gatewayStub(t)
	c := NewClient("sk_wrong", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	_, err := c.Initialize(context.Background(), InitializeInput{Email: "a@b.com", AmountMinor: 100})
	if err == nil {
		t.Fatal("expected an error from the gateway")
	}
	if apperr.KindOf(err) != apperr.KindInternal {
		t.Fatalf("got kind %v, want internal", apperr.KindOf(err))
	}
}

func TestVerify(t *testing.T) {
	srv := gatewayStub(t)
	c := NewClient("sk_test_secret", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	res, err := c.Verify(context.Background(), "ref_1")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if res.Status != "success" || res.AmountMinor != 125000 || res.Currency != "NGN" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestNonJSONErrorBodies(t *testing.T) {
	// some gateway front-ends answer errors with HTML pages
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("<html>not found</html>"))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	t.Cleanup(srv.Close)

	c := NewClient("sk_test_secret", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	_, err := c.Verify(context.Background(), "ref_ghost")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("html 404: got %v, want not found", err)
	}

	_, err = c.Initialize(context.Background(), InitializeInput{Email: "a@b.com", AmountMinor: 100})
	if apperr.KindOf(err) != apperr.KindInternal {
		t.Fatalf("html 502: got %v, want internal", err)
	}
	if got := err.Error(); !strings.Contains(got, "502") {
		t.Fatalf("error %q should carry the status code", got)
	}
}

func TestVerifyUnknownReference(t *testing.T) {
	srv := gatewayStub(t)
	c := NewClient("sk_test_secret", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	_, err := c.Verify(context.Background(), "ref_ghost")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("got %v, want not found", err)
	}

	_, err = c.Verify(context.Background(), "")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("empty reference: got %v, want validation", err)
	}
}
