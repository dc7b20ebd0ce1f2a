package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"bazaar/internal/service/inventory/application"
	"bazaar/internal/service/inventory/domain"
)

const serviceName = "inventory-service"

// InventoryHandler exposes the ledger over HTTP. Decrement answers 409 for
// insufficient stock and 404 for a missing record, so callers can tell the
// two apart.
type InventoryHandler struct {
	service *application.Service
	tracer  trace.Tracer
}

func NewInventoryHandler(service *application.Service) *InventoryHandler {
	return &InventoryHandler{service: service, tracer: otel.Tracer(serviceName)}
}

func (h *InventoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /inventory/create", h.create)
	mux.HandleFunc("GET /inventory/get", h.get)
	mux.HandleFunc("POST /inventory/decrement", h.decrement)
	mux.HandleFunc("POST /inventory/increment", h.increment)
}

type recordResponse struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

func (h *InventoryHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "inventory-service.Create")
	defer span.End()

	itemID, qty, ok := itemParams(w, r)
	if !ok {
		return
	}
	record, err := h.service.Create(ctx, itemID, qty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recordResponse{ItemID: record.ItemID, Quantity: record.Quantity})
}

func (h *InventoryHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "inventory-service.Get")
	defer span.End()

	itemID := r.URL.Query().Get("itemId")
	record, err := h.service.Get(ctx, itemID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordResponse{ItemID: record.ItemID, Quantity: record.Quantity})
}

func (h *InventoryHandler) decrement(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "inventory-service.Decrement")
	defer span.End()

	itemID, qty, ok := itemParams(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("item.id", itemID), attribute.Int("item.quantity", qty))

	accepted, err := h.service.TryDecrement(ctx, itemID, qty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !accepted {
		http.Error(w, "insufficient stock", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *InventoryHandler) increment(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "inventory-service.Increment")
	defer span.End()

	itemID, qty, ok := itemParams(w, r)
	if !ok {
		return
	}
	newQty, err := h.service.Increment(ctx, itemID, qty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordResponse{ItemID: itemID, Quantity: newQty})
}

func (h *InventoryHandler) startSpan(r *http.Request, name string) (context.Context, trace.Span) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	return h.tracer.Start(ctx, name)
}

func (h *InventoryHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidItemID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func itemParams(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	itemID := r.URL.Query().Get("itemId")
	qty, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if itemID == "" || err != nil {
		http.Error(w, "itemId and quantity are required", http.StatusBadRequest)
		return "", 0, false
	}
	return itemID, qty, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
