package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var ErrNotNumber = errors.New("not a number")

// Amount is a crop price. It decodes from a JSON number or a numeric
// string, as browser forms send it, and always encodes as a number.
type Amount float64

// ParseAmount reads a raw JSON value. Absent, null and blank values give
// a nil Amount.
func ParseAmount(data []byte) (*Amount, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	text := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return nil, ErrNotNumber
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, ErrNotNumber
	}
	a := Amount(f)
	return &a, nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	parsed, err := ParseAmount(data)
	if err != nil {
		return err
	}
	if parsed != nil {
		*a = *parsed
	}
	return nil
}
