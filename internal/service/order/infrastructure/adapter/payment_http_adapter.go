package adapter

import (
	"context"

	pkgerrors "github.com/pkg/errors"

	"bazaar/internal/pkg/httpclient"
	"bazaar/internal/service/order/domain"
	"bazaar/internal/service/order/domain/port"
)

// PaymentHTTPAdapter implements port.PaymentGateway against the payment
// service. The processor's internals are opaque; only accept/reject matters.
type PaymentHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

func NewPaymentHTTPAdapter(client *httpclient.Client, baseURL string) *PaymentHTTPAdapter {
	return &PaymentHTTPAdapter{client: client, baseURL: baseURL}
}

type paymentRequest struct {
	OrderID string  `json:"orderId"`
	UserID  string  `json:"userId"`
	Amount  float64 `json:"amount"`
}

type paymentResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

func (a *PaymentHTTPAdapter) Submit(ctx context.Context, orderID, ownerID string, amount float64) (port.PaymentResult, error) {
	req := paymentRequest{OrderID: orderID, UserID: ownerID, Amount: amount}

	var resp paymentResponse
	if err := a.client.PostJSON(ctx, a.baseURL+"/payments", req, &resp); err != nil {
		return "", pkgerrors.Wrapf(domain.ErrUpstreamUnavailable, "submit payment for %s: %v", orderID, err)
	}
	if resp.Status == string(port.PaymentAccepted) {
		return port.PaymentAccepted, nil
	}
	return port.PaymentRejected, nil
}
