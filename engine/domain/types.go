// Package domain defines the core listing types and the normalization gate
// that every property record passes through before indexing or rendering.
package domain

// PropertyRecord is a raw listing row as it arrives from a tabular source.
// All fields are strings; Normalize converts them into typed metadata.
type PropertyRecord struct {
	PropertyID      string `json:"property_id"`
	PropertyType    string `json:"property_type"`
	StreetAddress   string `json:"street_address"`
	Suburb          string `json:"suburb"`
	State           string `json:"state"`
	Postcode        string `json:"postcode"`
	Bedrooms        string `json:"bedrooms"`
	Bathrooms       string `json:"bathrooms"`
	Price           string `json:"price"`
	YearBuilt       string `json:"year_built"`
	LandSize        string `json:"land_size"`
	FloorArea       string `json:"floor_area"`
	Amenities       string `json:"amenities"`
	NearbyAmenities string `json:"nearby_amenities"`
	Description     string `json:"description"`
	URL             string `json:"url"`
	Images          string `json:"images"`
}

// PropertyMetadata is the canonical typed record stored alongside a vector.
// Every field is always present: counts default to 0, free-text dimensional
// fields to "", and list fields to an empty slice, never nil.
type PropertyMetadata struct {
	PropertyID      string   `json:"property_id"`
	PropertyType    string   `json:"property_type"`
	StreetAddress   string   `json:"street_address"`
	Suburb          string   `json:"suburb"`
	State           string   `json:"state"`
	Postcode        string   `json:"postcode"`
	Bedrooms        int      `json:"bedrooms"`
	Bathrooms       int      `json:"bathrooms"`
	Price           float64  `json:"price"`
	YearBuilt       string   `json:"year_built"`
	LandSize        string   `json:"land_size"`
	FloorArea       string   `json:"floor_area"`
	Amenities       []string `json:"amenities"`
	NearbyAmenities []string `json:"nearby_amenities"`
	Description     string   `json:"description"`
	URL             string   `json:"url"`
	Images          string   `json:"images"`
}
