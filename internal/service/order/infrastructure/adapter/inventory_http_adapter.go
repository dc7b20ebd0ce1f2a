package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"bazaar/internal/pkg/httpclient"
	"bazaar/internal/service/order/domain"
)

// InventoryHTTPAdapter implements port.InventoryLedger against the inventory
// service. The conditional check-and-decrement itself happens inside the
// inventory service's store; this adapter only translates transport results:
// 409 means insufficient stock (a normal false), 404 means the record itself
// is missing.
type InventoryHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

func NewInventoryHTTPAdapter(client *httpclient.Client, baseURL string) *InventoryHTTPAdapter {
	return &InventoryHTTPAdapter{client: client, baseURL: baseURL}
}

type quantityResponse struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

func (a *InventoryHTTPAdapter) TryDecrement(ctx context.Context, itemID string, qty int) (bool, error) {
	params := url.Values{}
	params.Set("itemId", itemID)
	params.Set("quantity", strconv.Itoa(qty))

	err := a.client.PostForm(ctx, a.baseURL+"/inventory/decrement", params, nil)
	if err != nil {
		if status, ok := asStatusError(err); ok {
			switch status.Code {
			case http.StatusConflict:
				return false, nil
			case http.StatusNotFound:
				return false, fmt.Errorf("%w: inventory record for item %s", domain.ErrNotFound, itemID)
			}
		}
		return false, pkgerrors.Wrapf(domain.ErrUpstreamUnavailable, "decrement %s: %v", itemID, err)
	}
	return true, nil
}

func (a *InventoryHTTPAdapter) Increment(ctx context.Context, itemID string, qty int) (int, error) {
	params := url.Values{}
	params.Set("itemId", itemID)
	params.Set("quantity", strconv.Itoa(qty))

	var resp quantityResponse
	err := a.client.PostForm(ctx, a.baseURL+"/inventory/increment", params, &resp)
	if err != nil {
		if status, ok := asStatusError(err); ok && status.Code == http.StatusNotFound {
			return 0, fmt.Errorf("%w: inventory record for item %s", domain.ErrNotFound, itemID)
		}
		return 0, pkgerrors.Wrapf(domain.ErrUpstreamUnavailable, "increment %s: %v", itemID, err)
	}
	return resp.Quantity, nil
}

func asStatusError(err error) (*httpclient.StatusError, bool) {
	var status *httpclient.StatusError
	if errors.As(err, &status) {
		return status, true
	}
	return nil, false
}
