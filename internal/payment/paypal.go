package payment

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// PayPalSource reads order status from the PayPal orders API.
type PayPalSource struct {
	client *resty.Client
}

// NewPayPalSource creates a source against the given API base
// (e.g. https://api-m.paypal.com) using client-credential basic auth.
func NewPayPalSource(baseURL, clientID, secret string) *PayPalSource {
	client := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(clientID, secret).
		SetHeader("Accept", "application/json")
	return &PayPalSource{client: client}
}

type paypalOrder struct {
	Status string `json:"status"`
	Payer  struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

func (p *PayPalSource) Lookup(ctx context.Context, orderID string) (Facts, error) {
	var order paypalOrder
	resp, err := p.client.R().
		SetContext(ctx).
		SetResult(&order).
		SetPathParam("id", orderID).
		Get("/v2/checkout/orders/{id}")
	if err != nil {
		return Facts{}, fmt.Errorf("paypal order lookup: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return Facts{}, nil
	}
	if resp.IsError() {
		return Facts{}, fmt.Errorf("paypal order lookup: status %d", resp.StatusCode())
	}

	return Facts{
		Paid:       order.Status == "COMPLETED",
		PayerEmail: order.Payer.EmailAddress,
	}, nil
}
