package semantic

import (
	"github.com/realtylens/realtylens/engine/domain"
	pb "github.com/qdrant/go-client/qdrant"
)

// metadataToPayload encodes canonical metadata as a Qdrant payload. Every
// canonical field is written, including empty ones, so retrieval always sees
// the full field set.
func metadataToPayload(m domain.PropertyMetadata) map[string]*pb.Value {
	return map[string]*pb.Value{
		"property_id":      stringValue(m.PropertyID),
		"property_type":    stringValue(m.PropertyType),
		"street_address":   stringValue(m.StreetAddress),
		"suburb":           stringValue(m.Suburb),
		"state":            stringValue(m.State),
		"postcode":         stringValue(m.Postcode),
		"bedrooms":         intValue(m.Bedrooms),
		"bathrooms":        intValue(m.Bathrooms),
		"price":            doubleValue(m.Price),
		"year_built":       stringValue(m.YearBuilt),
		"land_size":        stringValue(m.LandSize),
		"floor_area":       stringValue(m.FloorArea),
		"amenities":        listValue(m.Amenities),
		"nearby_amenities": listValue(m.NearbyAmenities),
		"description":      stringValue(m.Description),
		"url":              stringValue(m.URL),
		"images":           stringValue(m.Images),
	}
}

// payloadToMetadata decodes a Qdrant payload back into canonical metadata.
// List fields decode to empty slices when absent, never nil.
func payloadToMetadata(payload map[string]*pb.Value) domain.PropertyMetadata {
	return domain.PropertyMetadata{
		PropertyID:      payload["property_id"].GetStringValue(),
		PropertyType:    payload["property_type"].GetStringValue(),
		StreetAddress:   payload["street_address"].GetStringValue(),
		Suburb:          payload["suburb"].GetStringValue(),
		State:           payload["state"].GetStringValue(),
		Postcode:        payload["postcode"].GetStringValue(),
		Bedrooms:        int(payload["bedrooms"].GetIntegerValue()),
		Bathrooms:       int(payload["bathrooms"].GetIntegerValue()),
		Price:           payload["price"].GetDoubleValue(),
		YearBuilt:       payload["year_built"].GetStringValue(),
		LandSize:        payload["land_size"].GetStringValue(),
		FloorArea:       payload["floor_area"].GetStringValue(),
		Amenities:       stringList(payload["amenities"]),
		NearbyAmenities: stringList(payload["nearby_amenities"]),
		Description:     payload["description"].GetStringValue(),
		URL:             payload["url"].GetStringValue(),
		Images:          payload["images"].GetStringValue(),
	}
}

func stringValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}

func intValue(n int) *pb.Value {
	return &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: int64(n)}}
}

func doubleValue(f float64) *pb.Value {
	return &pb.Value{Kind: &pb.Value_DoubleValue{DoubleValue: f}}
}

func listValue(items []string) *pb.Value {
	values := make([]*pb.Value, len(items))
	for i, s := range items {
		values[i] = stringValue(s)
	}
	return &pb.Value{Kind: &pb.Value_ListValue{ListValue: &pb.ListValue{Values: values}}}
}

func stringList(v *pb.Value) []string {
	values := v.GetListValue().GetValues()
	out := make([]string, 0, len(values))
	for _, item := range values {
		out = append(out, item.GetStringValue())
	}
	return out
}
