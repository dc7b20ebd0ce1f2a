package port

import "context"

// PaymentResult is the processor's verdict on a charge.
type PaymentResult string

const (
	PaymentAccepted PaymentResult = "ACCEPTED"
	PaymentRejected PaymentResult = "REJECTED"
)

// PaymentGateway is the outbound port to the payment processor. A rejected
// charge is a result, not an error; errors mean the processor could not be
// reached and the saga treats them the same as a rejection.
type PaymentGateway interface {
	Submit(ctx context.Context, orderID, ownerID string, amount float64) (PaymentResult, error)
}
