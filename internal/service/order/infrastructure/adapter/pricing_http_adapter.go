package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	pkgerrors "github.com/pkg/errors"

	"bazaar/internal/pkg/httpclient"
	"bazaar/internal/service/order/domain"
	"bazaar/internal/service/order/domain/port"
)

// PricingHTTPAdapter implements port.PricingGateway against the catalog
// service's price lookup endpoint.
type PricingHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

func NewPricingHTTPAdapter(client *httpclient.Client, baseURL string) *PricingHTTPAdapter {
	return &PricingHTTPAdapter{client: client, baseURL: baseURL}
}

type itemResponse struct {
	ItemID string  `json:"itemId"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}

func (a *PricingHTTPAdapter) GetItem(ctx context.Context, itemID string) (port.PricedItem, error) {
	params := url.Values{}
	params.Set("itemId", itemID)

	var resp itemResponse
	err := a.client.GetJSON(ctx, a.baseURL+"/items/get", params, &resp)
	if err != nil {
		if status, ok := asStatusError(err); ok && status.Code == http.StatusNotFound {
			return port.PricedItem{}, fmt.Errorf("%w: item %s", domain.ErrNotFound, itemID)
		}
		return port.PricedItem{}, pkgerrors.Wrapf(domain.ErrUpstreamUnavailable, "pricing lookup for %s: %v", itemID, err)
	}
	return port.PricedItem{ItemID: resp.ItemID, Name: resp.Name, Price: resp.Price}, nil
}
