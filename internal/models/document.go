package models

// Document is the whole persisted marketplace state.
// Prices stays nil until the first price update.
type Document struct {
	Users  []User  `json:"users"            bson:"users"`
	Crops  []Crop  `json:"crops"            bson:"crops"`
	Prices []Price `json:"prices,omitempty" bson:"prices,omitempty"`
}

// NewDocument returns an empty document with both required collections.
func NewDocument() *Document {
	return &Document{Users: []User{}, Crops: []Crop{}}
}

// Normalize replaces nil required collections with empty ones.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Crops == nil {
		d.Crops = []Crop{}
	}
}
