package crop

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ayush/krishi-mitr/backend/internal/apperr"
	"github.com/ayush/krishi-mitr/backend/internal/logger"
	"github.com/ayush/krishi-mitr/backend/internal/metrics"
	"github.com/ayush/krishi-mitr/backend/internal/models"
	"github.com/ayush/krishi-mitr/backend/internal/respond"
	"github.com/ayush/krishi-mitr/backend/internal/validation"
)

// DocumentStore is the part of the record store the handlers need.
type DocumentStore interface {
	Update(ctx context.Context, fn func(doc *models.Document) error) error
	View(ctx context.Context, fn func(doc *models.Document) error) error
}

// Handler holds crop listing and trade handlers.
type Handler struct {
	store DocumentStore
	log   *logger.Logger
}

func NewHandler(store DocumentStore, log *logger.Logger) *Handler {
	return &Handler{store: store, log: log.WithComponent("crop")}
}

type cropResponse struct {
	Message string      `json:"message"`
	Crop    models.Crop `json:"crop"`
}

// Add lists a new crop for barter or resale.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req models.AddCropRequest
	err := respond.Decode(r, &req)
	var crop models.Crop
	if err == nil {
		crop, err = h.add(r.Context(), req)
	}
	metrics.Operation.WithLabelValues("crop_add", metrics.Outcome(err)).Inc()
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, cropResponse{Message: "Crop added successfully!", Crop: crop})
}

func (h *Handler) add(ctx context.Context, req models.AddCropRequest) (models.Crop, error) {
	if err := validation.Struct(req, "Required fields: owner, name, type"); err != nil {
		return models.Crop{}, err
	}
	cropType := models.CropType(*req.Type)
	var price *models.Amount
	err := validation.First(
		func() error {
			return validation.Var(*req.Type, "oneof=barter resell", "Type must be 'barter' or 'resell'")
		},
		func() error {
			if cropType != models.CropResell {
				return nil
			}
			var err error
			if price, err = models.ParseAmount(req.Price); err != nil {
				return apperr.Validation("Price must be a number")
			}
			if price == nil {
				return apperr.Validation("Price is required for resell")
			}
			return nil
		},
		func() error {
			if cropType != models.CropBarter {
				return nil
			}
			return validation.Var(req.ExchangeFor, "required", "Exchange_for is required for barter")
		},
	)
	if err != nil {
		return models.Crop{}, err
	}

	crop := models.Crop{
		ID:    uuid.NewString(),
		Owner: strings.TrimSpace(*req.Owner),
		Name:  strings.TrimSpace(*req.Name),
		Type:  cropType,
	}
	switch cropType {
	case models.CropResell:
		crop.Price = price
	case models.CropBarter:
		exchangeFor := strings.TrimSpace(*req.ExchangeFor)
		crop.ExchangeFor = &exchangeFor
	}

	err = h.store.Update(ctx, func(doc *models.Document) error {
		doc.Crops = append(doc.Crops, crop)
		return nil
	})
	if err != nil {
		return models.Crop{}, err
	}
	h.log.Infow("crop added", "id", crop.ID, "owner", crop.Owner, "type", crop.Type)
	return crop, nil
}

// List returns every listed crop in store order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var crops []models.Crop
	err := h.store.View(r.Context(), func(doc *models.Document) error {
		crops = doc.Crops
		return nil
	})
	metrics.Operation.WithLabelValues("crop_list", metrics.Outcome(err)).Inc()
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	if crops == nil {
		crops = []models.Crop{}
	}
	respond.JSON(w, http.StatusOK, crops)
}

// Barter consumes a barter listing.
func (h *Handler) Barter(w http.ResponseWriter, r *http.Request) {
	crop, err := h.consume(r.Context(), chi.URLParam(r, "id"), models.CropBarter)
	metrics.Operation.WithLabelValues("crop_barter", metrics.Outcome(err)).Inc()
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, cropResponse{Message: "Crop bartered successfully!", Crop: crop})
}

// Buy consumes a resell listing.
func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	crop, err := h.consume(r.Context(), chi.URLParam(r, "id"), models.CropResell)
	metrics.Operation.WithLabelValues("crop_buy", metrics.Outcome(err)).Inc()
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, cropResponse{Message: "Crop purchased successfully!", Crop: crop})
}

var wrongType = map[models.CropType]string{
	models.CropBarter: "Crop is not available for barter",
	models.CropResell: "Crop is not available for purchase",
}

// consume removes the crop with the given id if it has type want. The check
// and the removal happen within one locked update.
func (h *Handler) consume(ctx context.Context, id string, want models.CropType) (models.Crop, error) {
	if !validID(id) {
		return models.Crop{}, apperr.Validation("Invalid crop ID format")
	}

	var removed models.Crop
	err := h.store.Update(ctx, func(doc *models.Document) error {
		i := slices.IndexFunc(doc.Crops, func(c models.Crop) bool { return c.ID == id })
		if i < 0 {
			return apperr.NotFound("Crop not found")
		}
		if doc.Crops[i].Type != want {
			return apperr.Validation(wrongType[want])
		}
		removed = doc.Crops[i]
		doc.Crops = slices.Delete(doc.Crops, i, i+1)
		return nil
	})
	if err != nil {
		return models.Crop{}, err
	}
	h.log.Infow("crop consumed", "id", removed.ID, "type", removed.Type)
	return removed, nil
}

// validID accepts only the canonical 36-character UUID form.
func validID(id string) bool {
	return len(id) == 36 && uuid.Validate(id) == nil
}
