package models

import "encoding/json"

// CropType decides how a listed crop is consumed.
type CropType string

const (
	CropBarter CropType = "barter"
	CropResell CropType = "resell"
)

// Crop is a listing offered either for barter or for resale.
// Exactly one of Price and ExchangeFor is non-nil, matching Type.
type Crop struct {
	ID          string   `json:"id"           bson:"id"`
	Owner       string   `json:"owner"        bson:"owner"`
	Name        string   `json:"name"         bson:"name"`
	Type        CropType `json:"type"         bson:"type"`
	Price       *Amount  `json:"price"        bson:"price"`
	ExchangeFor *string  `json:"exchange_for" bson:"exchange_for"`
}

// AddCropRequest is the JSON body for POST /api/crop/add. Price is kept
// raw and parsed with ParseAmount once the crop type is known.
type AddCropRequest struct {
	Owner       *string         `json:"owner"        validate:"required"`
	Name        *string         `json:"name"         validate:"required"`
	Type        *string         `json:"type"         validate:"required"`
	Price       json.RawMessage `json:"price"`
	ExchangeFor *string         `json:"exchange_for"`
}
