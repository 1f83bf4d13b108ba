package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"roamstay/models"
)

func TestInitializeSendsChapaContract(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("request body decode error: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "success",
			"message": "Hosted Link",
			"data": map[string]any{
				"checkout_url": "https://checkout.example/tx",
				"tx_ref":       gotBody["tx_ref"],
			},
		})
	}))
	defer srv.Close()

	g := NewChapaGateway(srv.URL, "sk-test", "ETB")
	resp, err := g.Initialize(context.Background(), 249.5, "guest@example.com", "ref-1")
	if err != nil {
		t.Fatalf("initialize error: %v", err)
	}

	if gotPath != "/transaction/initialize" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotBody["amount"] != "249.50" {
		t.Errorf("amount = %q, want 249.50", gotBody["amount"])
	}
	if gotBody["currency"] != "ETB" {
		t.Errorf("currency = %q", gotBody["currency"])
	}
	if gotBody["tx_ref"] != "ref-1" {
		t.Errorf("tx_ref = %q", gotBody["tx_ref"])
	}

	if resp.Status != "success" {
		t.Errorf("status = %q", resp.Status)
	}
	if DataString(resp, "checkout_url") != "https://checkout.example/tx" {
		t.Errorf("checkout_url = %q", DataString(resp, "checkout_url"))
	}
}

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/ref-9" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("method = %q", r.Method)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data":   map[string]any{"status": "success", "amount": 100},
		})
	}))
	defer srv.Close()

	g := NewChapaGateway(srv.URL, "sk-test", "ETB")
	resp, err := g.Verify(context.Background(), "ref-9")
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if DataString(resp, "status") != "success" {
		t.Errorf("data.status = %q", DataString(resp, "status"))
	}
}

func TestDoSurfacesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]any{"status": "error", "message": "upstream down"})
	}))
	defer srv.Close()

	g := NewChapaGateway(srv.URL, "sk-test", "ETB")
	resp, err := g.Verify(context.Background(), "ref-9")
	if err == nil {
		t.Fatal("expected error on 5xx")
	}
	if resp == nil || resp.Status != "error" {
		t.Errorf("decoded response not preserved: %+v", resp)
	}
}

func TestDataStringMissingKeys(t *testing.T) {
	if DataString(nil, "status") != "" {
		t.Error("nil response should yield empty string")
	}
	if DataString(&models.GatewayResponse{}, "status") != "" {
		t.Error("nil data should yield empty string")
	}
	resp := &models.GatewayResponse{Data: map[string]interface{}{"amount": 100}}
	if DataString(resp, "amount") != "" {
		t.Error("non-string values should yield empty string")
	}
}
