package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"bazaar/internal/service/catalog/application"
	"bazaar/internal/service/catalog/domain"
)

const serviceName = "catalog-service"

// CatalogHandler exposes item CRUD plus the price lookup the order
// orchestrator depends on.
type CatalogHandler struct {
	service *application.Service
	tracer  trace.Tracer
}

func NewCatalogHandler(service *application.Service) *CatalogHandler {
	return &CatalogHandler{service: service, tracer: otel.Tracer(serviceName)}
}

func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /items/get", h.get)
	mux.HandleFunc("POST /items/create", h.create)
	mux.HandleFunc("POST /items/update", h.update)
	mux.HandleFunc("POST /items/delete", h.delete)
}

type itemPayload struct {
	ItemID string  `json:"itemId"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}

func (h *CatalogHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "catalog-service.GetItem")
	defer span.End()

	item, err := h.service.Get(ctx, r.URL.Query().Get("itemId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemPayload{ItemID: item.ID, Name: item.Name, Price: item.Price})
}

func (h *CatalogHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "catalog-service.CreateItem")
	defer span.End()

	payload, ok := decodeItem(w, r)
	if !ok {
		return
	}
	item, err := h.service.Create(ctx, domain.Item{ID: payload.ItemID, Name: payload.Name, Price: payload.Price})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, itemPayload{ItemID: item.ID, Name: item.Name, Price: item.Price})
}

func (h *CatalogHandler) update(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "catalog-service.UpdateItem")
	defer span.End()

	payload, ok := decodeItem(w, r)
	if !ok {
		return
	}
	item, err := h.service.Update(ctx, domain.Item{ID: payload.ItemID, Name: payload.Name, Price: payload.Price})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemPayload{ItemID: item.ID, Name: item.Name, Price: item.Price})
}

func (h *CatalogHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "catalog-service.DeleteItem")
	defer span.End()

	if err := h.service.Delete(ctx, r.URL.Query().Get("itemId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) startSpan(r *http.Request, name string) (context.Context, trace.Span) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	return h.tracer.Start(ctx, name)
}

func decodeItem(w http.ResponseWriter, r *http.Request) (itemPayload, bool) {
	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return itemPayload{}, false
	}
	return payload, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidItem):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
