package application

import "bazaar/internal/service/order/domain"

// LineRequest is one requested order line as submitted by the caller.
// Prices are never accepted from callers; they are snapshotted from the
// catalog during the saga's PRICE step.
type LineRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

func toUnpricedLines(lines []LineRequest) []domain.OrderLine {
	out := make([]domain.OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, domain.OrderLine{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	return out
}
