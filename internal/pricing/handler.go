package pricing

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/krishi-mitr/backend/internal/apperr"
	"github.com/ayush/krishi-mitr/backend/internal/logger"
	"github.com/ayush/krishi-mitr/backend/internal/metrics"
	"github.com/ayush/krishi-mitr/backend/internal/models"
	"github.com/ayush/krishi-mitr/backend/internal/respond"
	"github.com/ayush/krishi-mitr/backend/internal/validation"
)

// DocumentStore is the part of the record store pricing needs.
type DocumentStore interface {
	Update(ctx context.Context, fn func(doc *models.Document) error) error
	View(ctx context.Context, fn func(doc *models.Document) error) error
}

// Handler serves the reference price table.
type Handler struct {
	store DocumentStore
	log   *logger.Logger
}

func NewHandler(store DocumentStore, log *logger.Logger) *Handler {
	return &Handler{store: store, log: log.WithComponent("pricing")}
}

// All returns every price record, or [] when none were ever set.
func All(ctx context.Context, store DocumentStore) ([]models.Price, error) {
	var prices []models.Price
	err := store.View(ctx, func(doc *models.Document) error {
		prices = doc.Prices
		return nil
	})
	if err != nil {
		return nil, err
	}
	if prices == nil {
		prices = []models.Price{}
	}
	return prices, nil
}

// Find returns the first record whose crop matches name, ignoring case.
func Find(ctx context.Context, store DocumentStore, name string) (models.Price, error) {
	var found models.Price
	err := store.View(ctx, func(doc *models.Document) error {
		for _, p := range doc.Prices {
			if strings.EqualFold(p.Crop(), name) {
				found = p
				return nil
			}
		}
		return apperr.NotFound("Price not found")
	})
	return found, err
}

// ReplaceAll swaps the whole price table for prices.
func ReplaceAll(ctx context.Context, store DocumentStore, prices []models.Price) error {
	if prices == nil {
		prices = []models.Price{}
	}
	return store.Update(ctx, func(doc *models.Document) error {
		doc.Prices = prices
		return nil
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	prices, err := All(r.Context(), h.store)
	metrics.Operation.WithLabelValues("price_list", metrics.Outcome(err)).Inc()
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, prices)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when it is set, leaving the param escaped.
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
	}
	price, err := Find(r.Context(), h.store, name)
	metrics.Operation.WithLabelValues("price_get", metrics.Outcome(err)).Inc()
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, price)
}

// Replace handles POST /api/pricing. Records are stored as sent, without
// any check on their fields.
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePricesRequest
	err := respond.Decode(r, &req)
	if err == nil {
		err = validation.Struct(req, "Prices data required")
	}
	if err == nil {
		err = ReplaceAll(r.Context(), h.store, *req.Prices)
	}
	metrics.Operation.WithLabelValues("price_replace", metrics.Outcome(err)).Inc()
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	h.log.Infow("prices replaced", "count", len(*req.Prices))
	respond.Message(w, http.StatusOK, "Prices updated successfully")
}
