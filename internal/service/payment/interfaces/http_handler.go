package interfaces

import (
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"bazaar/internal/service/payment/application"
)

// PaymentHandler exposes the charge endpoint called by the order saga.
type PaymentHandler struct {
	service *application.Service
}

func NewPaymentHandler(service *application.Service) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /payments", h.submit)
}

type chargeRequest struct {
	OrderID string  `json:"orderId"`
	UserID  string  `json:"userId"`
	Amount  float64 `json:"amount"`
}

type chargeResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

func (h *PaymentHandler) submit(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req chargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if req.OrderID == "" {
		http.Error(w, "orderId is required", http.StatusBadRequest)
		return
	}

	decision, err := h.service.Submit(ctx, application.Charge{
		OrderID: req.OrderID,
		UserID:  req.UserID,
		Amount:  req.Amount,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(chargeResponse{OrderID: req.OrderID, Status: string(decision)})
}
