package describe

import (
	"fmt"
	"strings"

	"github.com/realtylens/realtylens/engine/domain"
	"github.com/realtylens/realtylens/engine/rag"
)

const (
	noAmenities = "No specific amenities listed"
	noNearby    = "No specific nearby facilities listed"
	notSpecified = "Not specified"
)

// descriptionTemplate asks for marketing-style prose, distinct from the
// query-answering template used by the serving pipeline.
const descriptionTemplate = `Act as a professional real estate agent and write a detailed, engaging description for the following property:

Property Details:
- Type: %s
- Location: %s, %s %s
- Bedrooms: %d
- Bathrooms: %d
- Year Built: %s
- Land Size: %s
- Floor Area: %s
- Price: %s

Features and Amenities:
%s

Nearby Facilities:
%s

Please write a natural, engaging description that highlights the property's key features, location benefits,
amenities, and potential. Focus on making it informative and appealing to potential buyers or renters.
Emphasize both the property's features and its surrounding conveniences.
Keep the description between 100-150 words.`

// BuildDescriptionPrompt renders the per-record generation prompt.
func BuildDescriptionPrompt(m domain.PropertyMetadata) string {
	return fmt.Sprintf(descriptionTemplate,
		m.PropertyType,
		m.Suburb, m.State, m.Postcode,
		m.Bedrooms,
		m.Bathrooms,
		orNotSpecified(m.YearBuilt),
		orNotSpecified(m.LandSize),
		orNotSpecified(m.FloorArea),
		rag.FormatPrice(m.Price),
		bulleted(m.Amenities, noAmenities),
		bulleted(m.NearbyAmenities, noNearby),
	)
}

func orNotSpecified(s string) string {
	if s == "" {
		return notSpecified
	}
	return s
}

func bulleted(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return "- " + strings.Join(items, "\n- ")
}
