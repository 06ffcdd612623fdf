package rag

import (
	"fmt"
	"strings"

	"github.com/realtylens/realtylens/engine/semantic"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// pricePrinter renders prices with thousands separators, e.g. "$450,000.50".
var pricePrinter = message.NewPrinter(language.English)

// AssembleContext renders ranked matches into the context block fed to the
// generative model: one 1-indexed paragraph per match with a fixed field
// order. Optional fields are skipped when empty. A match missing a
// structurally required field indicates an upstream indexing defect and
// returns an error instead of rendering partial context.
func AssembleContext(matches []semantic.Match) (string, error) {
	var b strings.Builder
	b.WriteString("Here are the relevant properties:\n\n")

	for i, m := range matches {
		p := m.Metadata
		if err := checkRequired(i+1, m); err != nil {
			return "", err
		}

		fmt.Fprintf(&b, "Property %d:\n", i+1)
		fmt.Fprintf(&b, "- Type: %s\n", p.PropertyType)
		fmt.Fprintf(&b, "- Location: %s, %s, %s %s\n", p.StreetAddress, p.Suburb, p.State, p.Postcode)
		fmt.Fprintf(&b, "- Bedrooms: %d\n", p.Bedrooms)
		fmt.Fprintf(&b, "- Bathrooms: %d\n", p.Bathrooms)
		fmt.Fprintf(&b, "- Year Built: %s\n", p.YearBuilt)
		fmt.Fprintf(&b, "- Land Size: %s\n", p.LandSize)
		fmt.Fprintf(&b, "- Floor Area: %s\n", p.FloorArea)
		fmt.Fprintf(&b, "- Price: %s\n", FormatPrice(p.Price))

		if len(p.Amenities) > 0 {
			fmt.Fprintf(&b, "- Amenities: %s\n", strings.Join(p.Amenities, ", "))
		}
		if len(p.NearbyAmenities) > 0 {
			fmt.Fprintf(&b, "- Nearby: %s\n", strings.Join(p.NearbyAmenities, ", "))
		}
		if p.Description != "" {
			fmt.Fprintf(&b, "- Description: %s\n", p.Description)
		}
		if p.URL != "" {
			fmt.Fprintf(&b, "- URL: %s\n", p.URL)
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

// FormatPrice renders a price as currency with two decimals and thousands
// separators.
func FormatPrice(price float64) string {
	return pricePrinter.Sprintf("$%.2f", price)
}

// checkRequired verifies the fields the context format cannot do without.
func checkRequired(position int, m semantic.Match) error {
	p := m.Metadata
	missing := ""
	switch {
	case p.PropertyType == "":
		missing = "property_type"
	case p.StreetAddress == "":
		missing = "street_address"
	case p.Suburb == "":
		missing = "suburb"
	case p.State == "":
		missing = "state"
	}
	if missing != "" {
		return fmt.Errorf("rag: match %d (listing %q) missing required field %s", position, m.ID, missing)
	}
	return nil
}
