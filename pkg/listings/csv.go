// Package listings reads and writes property records as CSV, the tabular
// interchange format used by the indexing and description-generation jobs.
package listings

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/realtylens/realtylens/engine/domain"
)

// header is the canonical column order for written files.
var header = []string{
	"property_id", "property_type", "street_address", "suburb", "state",
	"postcode", "bedrooms", "bathrooms", "price", "year_built", "land_size",
	"floor_area", "amenities", "nearby_amenities", "description", "url", "images",
}

// Read loads property records from a CSV file with a header row. Unknown
// columns are ignored; missing columns read as empty strings. The legacy
// "rea_property_id" column is accepted as the identifier.
func Read(path string) ([]domain.PropertyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("listings: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	head, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("listings: read header of %s: %w", path, err)
	}
	col := make(map[string]int, len(head))
	for i, name := range head {
		col[name] = i
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []domain.PropertyRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listings: read %s: %w", path, err)
		}

		id := field(row, "property_id")
		if id == "" {
			id = field(row, "rea_property_id")
		}
		records = append(records, domain.PropertyRecord{
			PropertyID:      id,
			PropertyType:    field(row, "property_type"),
			StreetAddress:   field(row, "street_address"),
			Suburb:          field(row, "suburb"),
			State:           field(row, "state"),
			Postcode:        field(row, "postcode"),
			Bedrooms:        field(row, "bedrooms"),
			Bathrooms:       field(row, "bathrooms"),
			Price:           field(row, "price"),
			YearBuilt:       field(row, "year_built"),
			LandSize:        field(row, "land_size"),
			FloorArea:       field(row, "floor_area"),
			Amenities:       field(row, "amenities"),
			NearbyAmenities: field(row, "nearby_amenities"),
			Description:     field(row, "description"),
			URL:             field(row, "url"),
			Images:          field(row, "images"),
		})
	}
	return records, nil
}

// Write stores records as CSV with the canonical header, description column
// included.
func Write(path string, records []domain.PropertyRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("listings: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("listings: write header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.PropertyID, rec.PropertyType, rec.StreetAddress, rec.Suburb,
			rec.State, rec.Postcode, rec.Bedrooms, rec.Bathrooms, rec.Price,
			rec.YearBuilt, rec.LandSize, rec.FloorArea, rec.Amenities,
			rec.NearbyAmenities, rec.Description, rec.URL, rec.Images,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("listings: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("listings: flush %s: %w", path, err)
	}
	return nil
}
