package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/metrics"
	"bazaar/internal/service/order/application"
	"bazaar/internal/service/order/domain"
)

const serviceName = "order-service"

// callerHeader carries the verified caller identity. Token validation is the
// identity provider's job at the edge; by the time a request lands here the
// header is trusted and only its presence is checked.
const callerHeader = "X-User-ID"

// OrderHandler exposes the orchestrator over HTTP.
type OrderHandler struct {
	service *application.Service
}

func NewOrderHandler(service *application.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("POST /orders", h.withCaller(h.create))
	mux.HandleFunc("GET /orders", h.withCaller(h.list))
	mux.HandleFunc("GET /orders/{id}", h.withCaller(h.get))
	mux.HandleFunc("PUT /orders/{id}", h.withCaller(h.update))
	mux.HandleFunc("POST /orders/{id}/cancel", h.withCaller(h.cancel))
}

type orderPayload struct {
	Lines []application.LineRequest `json:"lines"`
}

type lineResponse struct {
	ItemID    string  `json:"itemId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type orderResponse struct {
	ID         string         `json:"id"`
	OwnerID    string         `json:"ownerId"`
	Lines      []lineResponse `json:"lines"`
	TotalPrice float64        `json:"totalPrice"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func (h *OrderHandler) create(w http.ResponseWriter, r *http.Request, callerID string) {
	var payload orderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	order, err := h.service.Create(r.Context(), callerID, payload.Lines)
	if err != nil {
		writeError(w, r, err)
		return
	}
	// Status tells the caller which terminal outcome this is: PAID, or
	// CANCELLED when payment was declined.
	writeJSON(w, http.StatusCreated, toResponse(order))
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request, callerID string) {
	order, err := h.service.Get(r.Context(), r.PathValue("id"), callerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(order))
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request, callerID string) {
	orders, err := h.service.List(r.Context(), callerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toResponse(o))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) update(w http.ResponseWriter, r *http.Request, callerID string) {
	var payload orderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	order, err := h.service.Update(r.Context(), r.PathValue("id"), callerID, payload.Lines)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(order))
}

func (h *OrderHandler) cancel(w http.ResponseWriter, r *http.Request, callerID string) {
	order, err := h.service.Cancel(r.Context(), r.PathValue("id"), callerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(order))
}

// withCaller extracts the propagated trace context and the caller identity,
// rejecting anonymous requests before they reach the orchestrator.
func (h *OrderHandler) withCaller(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	tracer := otel.Tracer(serviceName)
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.Start(ctx, "http "+r.Method+" "+r.URL.Path)
		defer span.End()

		callerID := r.Header.Get(callerHeader)
		if callerID == "" {
			http.Error(w, "missing caller identity", http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(ctx), callerID)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		logger.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("unhandled error")
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func toResponse(o *domain.Order) orderResponse {
	lines := make([]lineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, lineResponse{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return orderResponse{
		ID:         o.ID,
		OwnerID:    o.OwnerID,
		Lines:      lines,
		TotalPrice: o.TotalPrice,
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}
