package domain

import (
	"errors"
	"testing"
)

func validRecord() PropertyRecord {
	return PropertyRecord{
		PropertyID:      "prop-1001",
		PropertyType:    "House",
		StreetAddress:   "12 Wattle St",
		Suburb:          "Richmond",
		State:           "VIC",
		Postcode:        "3121",
		Bedrooms:        "3",
		Bathrooms:       "2",
		Price:           "850000",
		YearBuilt:       "1998",
		LandSize:        "420 sqm",
		FloorArea:       "180 sqm",
		Amenities:       "['Pool', 'Garage']",
		NearbyAmenities: "['School', 'Park']",
		Description:     "A lovely family home.",
		URL:             "https://example.com/prop-1001",
	}
}

func TestNormalize_AllFieldsPresent(t *testing.T) {
	meta, err := Normalize(validRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.PropertyID != "prop-1001" {
		t.Errorf("property id: got %q", meta.PropertyID)
	}
	if meta.Bedrooms != 3 || meta.Bathrooms != 2 {
		t.Errorf("counts: got %d/%d", meta.Bedrooms, meta.Bathrooms)
	}
	if meta.Price != 850000 {
		t.Errorf("price: got %v", meta.Price)
	}
	if len(meta.Amenities) != 2 || meta.Amenities[0] != "Pool" {
		t.Errorf("amenities: got %v", meta.Amenities)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	rec := validRecord()
	rec.Bedrooms = ""
	rec.Bathrooms = "nan"
	rec.YearBuilt = "NaN"
	rec.LandSize = ""
	rec.FloorArea = ""
	rec.Postcode = ""
	rec.Amenities = ""
	rec.NearbyAmenities = "not a list"

	meta, err := Normalize(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Bedrooms != 0 || meta.Bathrooms != 0 {
		t.Errorf("counts should default to 0, got %d/%d", meta.Bedrooms, meta.Bathrooms)
	}
	if meta.YearBuilt != "" || meta.LandSize != "" || meta.FloorArea != "" {
		t.Errorf("dimensional fields should default to empty strings")
	}
	if meta.Amenities == nil || len(meta.Amenities) != 0 {
		t.Errorf("amenities should be empty non-nil, got %#v", meta.Amenities)
	}
	if meta.NearbyAmenities == nil || len(meta.NearbyAmenities) != 0 {
		t.Errorf("nearby should be empty non-nil, got %#v", meta.NearbyAmenities)
	}
}

func TestNormalize_MalformedCounts(t *testing.T) {
	rec := validRecord()
	rec.Bedrooms = "three"
	rec.Bathrooms = "-2"

	meta, err := Normalize(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Bedrooms != 0 {
		t.Errorf("malformed count should default to 0, got %d", meta.Bedrooms)
	}
	if meta.Bathrooms != 0 {
		t.Errorf("negative count should clamp to 0, got %d", meta.Bathrooms)
	}
}

func TestNormalize_FloatFormattedCount(t *testing.T) {
	rec := validRecord()
	rec.Bedrooms = "4.0"
	meta, err := Normalize(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Bedrooms != 4 {
		t.Errorf("expected 4, got %d", meta.Bedrooms)
	}
}

func TestNormalize_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PropertyRecord)
		want   error
	}{
		{"missing id", func(r *PropertyRecord) { r.PropertyID = "  " }, ErrMissingID},
		{"missing price", func(r *PropertyRecord) { r.Price = "" }, ErrMissingPrice},
		{"nan price", func(r *PropertyRecord) { r.Price = "nan" }, ErrMissingPrice},
		{"invalid price", func(r *PropertyRecord) { r.Price = "lots" }, ErrInvalidPrice},
		{"negative price", func(r *PropertyRecord) { r.Price = "-1" }, ErrNegativePrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)
			_, err := Normalize(rec)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			var re *RecordError
			if !errors.As(err, &re) {
				t.Errorf("expected RecordError, got %T", err)
			}
		})
	}
}
