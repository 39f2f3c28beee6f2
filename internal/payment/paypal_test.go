package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func paypalTestServer(t *testing.T, orders map[string]paypalOrder) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, p, ok := r.BasicAuth(); !ok || u != "client" || p != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		id := r.URL.Path[len("/v2/checkout/orders/"):]
		order, ok := orders[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(order)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPayPalLookupCompletedOrder(t *testing.T) {
	order := paypalOrder{Status: "COMPLETED"}
	order.Payer.EmailAddress = "payer@example.com"
	srv := paypalTestServer(t, map[string]paypalOrder{"ORD-1": order})

	src := NewPayPalSource(srv.URL, "client", "secret")
	facts, err := src.Lookup(context.Background(), "ORD-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !facts.Paid || facts.PayerEmail != "payer@example.com" {
		t.Fatalf("unexpected facts: %+v", facts)
	}
}

func TestPayPalLookupPendingOrderIsUnpaid(t *testing.T) {
	srv := paypalTestServer(t, map[string]paypalOrder{"ORD-2": {Status: "CREATED"}})

	src := NewPayPalSource(srv.URL, "client", "secret")
	facts, err := src.Lookup(context.Background(), "ORD-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if facts.Paid {
		t.Fatal("non-completed order must not read as paid")
	}
}

func TestPayPalLookupUnknownOrder(t *testing.T) {
	srv := paypalTestServer(t, map[string]paypalOrder{})

	src := NewPayPalSource(srv.URL, "client", "secret")
	facts, err := src.Lookup(context.Background(), "ORD-404")
	if err != nil {
		t.Fatalf("missing order must not error: %v", err)
	}
	if facts.Paid || facts.PayerEmail != "" {
		t.Fatalf("unexpected facts: %+v", facts)
	}
}
