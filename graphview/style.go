package graphview

// Category is the coarse node type tag used for styling.
type Category string

// Known node categories. Backend entity types outside this set map to
// CategoryUnknown, which also marks placeholder nodes.
const (
	CategoryPerson  Category = "person"
	CategoryPlace   Category = "place"
	CategoryEvent   Category = "event"
	CategoryConcept Category = "concept"
	CategoryFact    Category = "fact"
	CategoryUnknown Category = "unknown"
)

// ParseCategory maps a backend entity type to a Category, falling back to
// CategoryUnknown for unrecognized values.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryPerson, CategoryPlace, CategoryEvent, CategoryConcept, CategoryFact:
		return Category(s)
	}
	return CategoryUnknown
}

// RelationCategory groups relationship types for styling.
type RelationCategory string

// Known relation categories.
const (
	RelationCausal    RelationCategory = "causal"
	RelationTemporal  RelationCategory = "temporal"
	RelationSemantic  RelationCategory = "semantic"
	RelationReference RelationCategory = "reference"
)

// relationCategories maps concrete relationship types to their category.
// Unlisted relation types fall back to RelationReference.
var relationCategories = map[string]RelationCategory{
	"CAUSES":        RelationCausal,
	"CAUSED_BY":     RelationCausal,
	"FOLLOWS":       RelationTemporal,
	"PRECEDES":      RelationTemporal,
	"HAPPENED_AT":   RelationTemporal,
	"RELATES_TO":    RelationSemantic,
	"SIMILAR_TO":    RelationSemantic,
	"PART_OF":       RelationSemantic,
	"MENTIONS":      RelationReference,
	"REFERENCES":    RelationReference,
	"DERIVED_FROM":  RelationReference,
	"SUPERSEDED_BY": RelationReference,
}

// ParseRelationCategory maps a relationship type to its category with a
// defined fallback.
func ParseRelationCategory(relation string) RelationCategory {
	if c, ok := relationCategories[relation]; ok {
		return c
	}
	return RelationReference
}

// FallbackColor is used for any category missing from a palette.
const FallbackColor = "#9e9e9e"

// nodePalette maps node categories to hex colors.
var nodePalette = map[Category]string{
	CategoryPerson:  "#4f8df7",
	CategoryPlace:   "#41b883",
	CategoryEvent:   "#f2a541",
	CategoryConcept: "#a06cd5",
	CategoryFact:    "#e4572e",
	CategoryUnknown: FallbackColor,
}

// relationPalette maps relation categories to hex colors.
var relationPalette = map[RelationCategory]string{
	RelationCausal:    "#d64550",
	RelationTemporal:  "#3d9ad1",
	RelationSemantic:  "#6cae75",
	RelationReference: "#8d8d8d",
}

// Color returns the display color for a node category.
func (c Category) Color() string {
	if hex, ok := nodePalette[c]; ok {
		return hex
	}
	return FallbackColor
}

// Color returns the display color for a relation category.
func (c RelationCategory) Color() string {
	if hex, ok := relationPalette[c]; ok {
		return hex
	}
	return FallbackColor
}
