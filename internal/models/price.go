package models

import "encoding/json"

// Price is one reference price record. Records are stored exactly as they
// were submitted; only the crop name is ever read back.
type Price json.RawMessage

func (p Price) MarshalJSON() ([]byte, error) {
	return json.RawMessage(p).MarshalJSON()
}

func (p *Price) UnmarshalJSON(data []byte) error {
	return (*json.RawMessage)(p).UnmarshalJSON(data)
}

// Crop returns the record's "crop" field, or "" when it has none or it is
// not a string.
func (p Price) Crop() string {
	var rec struct {
		Crop json.RawMessage `json:"crop"`
	}
	if err := json.Unmarshal(p, &rec); err != nil {
		return ""
	}
	var name string
	if err := json.Unmarshal(rec.Crop, &name); err != nil {
		return ""
	}
	return name
}

// UpdatePricesRequest is the JSON body for POST /api/pricing.
type UpdatePricesRequest struct {
	Prices *[]Price `json:"prices" validate:"required"`
}
