package application

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	service := NewService(100, otel.Tracer("test"))

	cases := []struct {
		name   string
		amount float64
		want   Decision
	}{
		{"normal charge", 42.5, DecisionAccepted},
		{"exactly at the ceiling", 100, DecisionAccepted},
		{"over the ceiling", 100.01, DecisionRejected},
		{"zero amount", 0, DecisionRejected},
		{"negative amount", -5, DecisionRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision, err := service.Submit(ctx, Charge{OrderID: "order-1", UserID: "alice", Amount: tc.amount})
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if decision != tc.want {
				t.Errorf("decision = %s, want %s", decision, tc.want)
			}
		})
	}
}
