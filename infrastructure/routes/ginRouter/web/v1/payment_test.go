package routev1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"cloverlink.io/application/controller/dto"
	"cloverlink.io/application/usecases/payment"
	activitylog "cloverlink.io/infrastructure/activity_log"
	"cloverlink.io/infrastructure/auth"
	"cloverlink.io/infrastructure/credentials"
	middlewares "cloverlink.io/infrastructure/middleware"
	"cloverlink.io/infrastructure/network"
	clover "cloverlink.io/infrastructure/payments/clover"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// newCloverStub serves the processor endpoints one happy checkout touches.
func newCloverStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v3/merchants/M1":
			json.NewEncoder(w).Encode(map[string]any{"id": "M1", "name": "Test Merchant"})
		case r.Method == http.MethodPost && r.URL.Path == "/v3/merchants/M1/orders":
			json.NewEncoder(w).Encode(map[string]any{"id": "O1"})
		case r.Method == http.MethodPost && r.URL.Path == "/v3/merchants/M1/orders/O1/line_items":
			json.NewEncoder(w).Encode(map[string]any{"id": "L1", "name": "Widget", "price": 1000})
		case r.Method == http.MethodPost && r.URL.Path == "/v3/merchants/M1/payments":
			json.NewEncoder(w).Encode(map[string]any{"id": "P1", "status": "succeeded", "amount": 1000, "currency": "USD"})
		case r.Method == http.MethodGet && r.URL.Path == "/v3/merchants/M1/payments/P1":
			json.NewEncoder(w).Encode(map[string]any{"id": "P1", "status": "succeeded", "amount": 1000, "currency": "USD"})
		default:
			t.Errorf("unexpected processor call: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

// setupServer wires the real stack (store, clover client, orchestrator,
// oauth client, routes) against the given processor base URL.
func setupServer(t *testing.T, processorURL string, authenticated bool) (*gin.Engine, *credentials.Store, *activitylog.Log) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	store := credentials.NewStore(filepath.Join(dir, "token.json"))
	if authenticated {
		if err := store.Save(&credentials.TokenRecord{AccessToken: "tok-1", MerchantID: "M1"}, 3600); err != nil {
			t.Fatalf("failed to seed token: %v", err)
		}
	}
	events := activitylog.NewLog(filepath.Join(dir, "transactions.log"), zap.NewNop())
	activitylog.Instance = events

	processor := &clover.CloverPaymentProcessor{
		Network: &network.NetworkController{BaseUrl: processorURL},
		Events:  events,
	}
	payment.Checkout = payment.NewCheckoutProcessor(store, processor, events)
	auth.Client = &auth.OAuthClient{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURI:  "http://localhost:8000/auth/callback",
		Network:      &network.NetworkController{BaseUrl: processorURL},
		Credentials:  store,
		Events:       events,
	}

	server := gin.New()
	server.Use(middlewares.UserAgentMiddleware())
	router := server.Group("")
	AuthRouter(router)
	PaymentRouter(router)
	return server, store, events
}

type payEnvelope struct {
	Message string                 `json:"message"`
	Body    *dto.PaymentResponseDTO `json:"body"`
}

func TestPayEndToEnd(t *testing.T) {
	stub := newCloverStub(t)
	defer stub.Close()
	server, _, events := setupServer(t, stub.URL, true)

	request := httptest.NewRequest(http.MethodPost, "/pay", strings.NewReader(`{"amount":10.00,"description":"Widget"}`))
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("User-Agent", "checkout-test/1.0")
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("POST /pay status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	var envelope payEnvelope
	if err := json.Unmarshal(recorder.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("response did not decode: %v", err)
	}
	response := envelope.Body
	if response == nil {
		t.Fatalf("response carried no body: %s", recorder.Body.String())
	}
	if response.Status != "succeeded" || response.PaymentID != "P1" || response.OrderID != "O1" {
		t.Errorf("pay response = %+v", response)
	}
	if response.Amount != 10.00 || response.Currency != "USD" || response.Description != "Widget" {
		t.Errorf("pay response echo fields = %+v", response)
	}

	records, _ := events.RecentTransactions(10)
	if len(records) != 1 || records[0].Status != "succeeded" {
		t.Errorf("transaction log after checkout = %+v", records)
	}
}

func TestPayAcceptsLowercaseCurrency(t *testing.T) {
	stub := newCloverStub(t)
	defer stub.Close()
	server, _, _ := setupServer(t, stub.URL, true)

	request := httptest.NewRequest(http.MethodPost, "/pay", strings.NewReader(`{"amount":10.00,"description":"Widget","currency":"usd"}`))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("POST /pay with lowercase currency status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	var envelope payEnvelope
	if err := json.Unmarshal(recorder.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("response did not decode: %v", err)
	}
	if envelope.Body == nil || envelope.Body.Currency != "USD" {
		t.Errorf("pay response = %+v, want currency normalized to USD", envelope.Body)
	}
}

func TestPayUnauthenticated(t *testing.T) {
	stub := newCloverStub(t)
	defer stub.Close()
	server, _, events := setupServer(t, stub.URL, false)

	request := httptest.NewRequest(http.MethodPost, "/pay", strings.NewReader(`{"amount":10.00,"description":"Widget"}`))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("POST /pay without a token status = %d, want 401", recorder.Code)
	}
	records, _ := events.RecentTransactions(10)
	if len(records) != 0 {
		t.Errorf("unauthenticated attempt wrote %d transaction records, want 0", len(records))
	}
}

func TestPayValidationFailure(t *testing.T) {
	stub := newCloverStub(t)
	defer stub.Close()
	server, _, events := setupServer(t, stub.URL, true)

	request := httptest.NewRequest(http.MethodPost, "/pay", strings.NewReader(`{"amount":-1,"description":""}`))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("POST /pay with bad payload status = %d, want 422", recorder.Code)
	}
	records, _ := events.RecentTransactions(10)
	if len(records) != 0 {
		t.Errorf("rejected payload wrote %d transaction records, want 0", len(records))
	}
}

func TestPayProcessorRejection(t *testing.T) {
	rejecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/v3/merchants/M1" {
			json.NewEncoder(w).Encode(map[string]any{"id": "M1", "name": "Test Merchant"})
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"merchant not allowed"}`))
	}))
	defer rejecting.Close()
	server, _, events := setupServer(t, rejecting.URL, true)

	request := httptest.NewRequest(http.MethodPost, "/pay", strings.NewReader(`{"amount":10.00,"description":"Widget"}`))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)

	// the processor's own status code is surfaced
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("POST /pay with rejecting processor status = %d, want 400", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "merchant not allowed") {
		t.Errorf("response %q does not surface the processor message", recorder.Body.String())
	}
	records, _ := events.RecentTransactions(10)
	if len(records) != 1 || records[0].Status != activitylog.StatusFailed {
		t.Errorf("transaction log after rejection = %+v, want one FAILED record", records)
	}
}

func TestTransactionsEndpoint(t *testing.T) {
	stub := newCloverStub(t)
	defer stub.Close()
	server, _, events := setupServer(t, stub.URL, true)
	events.RecordTransaction(&activitylog.TransactionRecord{Status: "succeeded", PaymentID: "P1", OrderID: "O1", AmountCents: 1000, Currency: "USD"})

	request := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("GET /transactions status = %d", recorder.Code)
	}
	var envelope struct {
		Body struct {
			Transactions []activitylog.TransactionRecord `json:"transactions"`
			Skipped      int                             `json:"skipped"`
		} `json:"body"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("response did not decode: %v", err)
	}
	if len(envelope.Body.Transactions) != 1 || envelope.Body.Transactions[0].PaymentID != "P1" {
		t.Errorf("transactions = %+v", envelope.Body.Transactions)
	}
}

func TestAuthFlow(t *testing.T) {
	t.Setenv("STATE_SIGNING_SECRET", "state-secret")
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/token" {
			t.Errorf("unexpected provider call: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-1", "expires_in": 3600})
	}))
	defer provider.Close()
	server, store, _ := setupServer(t, provider.URL, false)

	// login redirects to the provider with a state parameter
	request := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusFound {
		t.Fatalf("GET /auth/login status = %d, want 302", recorder.Code)
	}
	location, err := url.Parse(recorder.Header().Get("Location"))
	if err != nil {
		t.Fatalf("login redirect location did not parse: %v", err)
	}
	state := location.Query().Get("state")
	if state == "" {
		t.Fatal("login redirect carries no state")
	}

	// callback with the issued state exchanges the code and saves the token
	request = httptest.NewRequest(http.MethodGet, "/auth/callback?code=code-1&merchant_id=M1&state="+url.QueryEscape(state), nil)
	recorder = httptest.NewRecorder()
	server.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusFound {
		t.Fatalf("GET /auth/callback status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	// the redirect must land on a route the server actually serves
	if target := recorder.Header().Get("Location"); target != "/auth/status" {
		t.Errorf("callback redirect location = %q, want /auth/status", target)
	}
	if record := store.Load(); record == nil || record.MerchantID != "M1" {
		t.Fatalf("callback did not persist the session: %+v", record)
	}

	// status now reports the merchant as authenticated
	request = httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	recorder = httptest.NewRecorder()
	server.ServeHTTP(recorder, request)
	var status struct {
		Body struct {
			Authenticated bool    `json:"authenticated"`
			MerchantID    *string `json:"merchant_id"`
		} `json:"body"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &status); err != nil {
		t.Fatalf("status response did not decode: %v", err)
	}
	if !status.Body.Authenticated || status.Body.MerchantID == nil || *status.Body.MerchantID != "M1" {
		t.Errorf("auth status = %+v", status.Body)
	}

	// logging in again with a live token skips the provider
	request = httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	recorder = httptest.NewRecorder()
	server.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusFound || recorder.Header().Get("Location") != "/auth/status" {
		t.Errorf("GET /auth/login with a live token = %d %q, want 302 to /auth/status", recorder.Code, recorder.Header().Get("Location"))
	}

	// logout clears the slot
	request = httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	recorder = httptest.NewRecorder()
	server.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusFound {
		t.Fatalf("GET /auth/logout status = %d, want 302", recorder.Code)
	}
	if target := recorder.Header().Get("Location"); target != "/auth/status" {
		t.Errorf("logout redirect location = %q, want /auth/status", target)
	}
	if record := store.Load(); record != nil {
		t.Errorf("logout left a persisted session: %+v", record)
	}
}

func TestCallbackRejectsBadState(t *testing.T) {
	t.Setenv("STATE_SIGNING_SECRET", "state-secret")
	stub := newCloverStub(t)
	defer stub.Close()
	server, store, _ := setupServer(t, stub.URL, false)

	request := httptest.NewRequest(http.MethodGet, "/auth/callback?code=code-1&merchant_id=M1&state=forged", nil)
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("callback with forged state status = %d, want 401", recorder.Code)
	}
	if record := store.Load(); record != nil {
		t.Errorf("forged callback persisted a session: %+v", record)
	}
}

func TestCallbackMissingParameters(t *testing.T) {
	stub := newCloverStub(t)
	defer stub.Close()
	server, _, _ := setupServer(t, stub.URL, false)

	tests := []struct {
		name  string
		query string
	}{
		{"provider error", "?error=access_denied"},
		{"missing code", "?merchant_id=M1"},
		{"missing merchant id", "?code=code-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/auth/callback"+tt.query, nil)
			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)
			if recorder.Code != http.StatusBadRequest {
				t.Errorf("callback %s status = %d, want 400", tt.query, recorder.Code)
			}
		})
	}
}
