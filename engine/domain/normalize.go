package domain

import (
	"strconv"
	"strings"
)

// Normalize converts a raw record into canonical metadata. Malformed optional
// fields never fail a record: counts fall back to 0, textual dimensional
// fields to "", list fields to an empty slice. Only a missing identifier or a
// missing/invalid price is fatal, and only for this one record.
func Normalize(rec PropertyRecord) (PropertyMetadata, error) {
	id := strings.TrimSpace(rec.PropertyID)
	if id == "" {
		return PropertyMetadata{}, NewRecordError(id, "property_id", ErrMissingID)
	}

	price, err := parsePrice(rec.Price)
	if err != nil {
		return PropertyMetadata{}, NewRecordError(id, "price", err)
	}

	return PropertyMetadata{
		PropertyID:      id,
		PropertyType:    strings.TrimSpace(rec.PropertyType),
		StreetAddress:   strings.TrimSpace(rec.StreetAddress),
		Suburb:          strings.TrimSpace(rec.Suburb),
		State:           strings.TrimSpace(rec.State),
		Postcode:        textOrEmpty(rec.Postcode),
		Bedrooms:        parseCount(rec.Bedrooms),
		Bathrooms:       parseCount(rec.Bathrooms),
		Price:           price,
		YearBuilt:       textOrEmpty(rec.YearBuilt),
		LandSize:        textOrEmpty(rec.LandSize),
		FloorArea:       textOrEmpty(rec.FloorArea),
		Amenities:       ParseListField(rec.Amenities),
		NearbyAmenities: ParseListField(rec.NearbyAmenities),
		Description:     strings.TrimSpace(rec.Description),
		URL:             strings.TrimSpace(rec.URL),
		Images:          textOrEmpty(rec.Images),
	}, nil
}

// parseCount parses a non-negative integer count, tolerating float-formatted
// values like "3.0". Missing or malformed input defaults to 0.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" || isNaN(s) {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return int(f)
	}
	return 0
}

func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || isNaN(s) {
		return 0, ErrMissingPrice
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	if f < 0 {
		return 0, ErrNegativePrice
	}
	return f, nil
}

// textOrEmpty keeps free-text fields as-is but maps tabular NaN markers to "".
func textOrEmpty(s string) string {
	s = strings.TrimSpace(s)
	if isNaN(s) {
		return ""
	}
	return s
}

func isNaN(s string) bool {
	return strings.EqualFold(s, "nan") || strings.EqualFold(s, "none") || strings.EqualFold(s, "null")
}
