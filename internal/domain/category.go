package domain

import "strings"

// Category is the closed set of product families the storefront sells.
// Rows loaded from storage carry free-text labels ("Smart Switch",
// "PDLC Film", ...) which normalize into this enum at the adapter boundary.
type Category string

const (
	CategorySwitch   Category = "switch"
	CategoryCurtain  Category = "curtain"
	CategorySecurity Category = "security"
	CategoryFilm     Category = "film"
	CategoryLighting Category = "lighting"
	CategoryService  Category = "service"
)

var categoryLabels = map[Category]string{
	CategorySwitch:   "Smart Switch",
	CategoryCurtain:  "Smart Curtain",
	CategorySecurity: "Security",
	CategoryFilm:     "PDLC Film",
	CategoryLighting: "Lighting",
	CategoryService:  "Services",
}

// Label returns the display name used in listings and order snapshots.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseCategory maps stored labels onto the enum. Legacy rows use several
// spellings per family, all accepted here.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "switch", "smart switch", "light switch", "fan switch", "boiler switch":
		return CategorySwitch, true
	case "curtain", "smart curtain", "slider curtain", "roller curtain":
		return CategoryCurtain, true
	case "security", "sohub protect", "security panel", "smart security box":
		return CategorySecurity, true
	case "film", "pdlc film":
		return CategoryFilm, true
	case "lighting", "spot light", "strip light":
		return CategoryLighting, true
	case "service", "services", "installation service", "consultancy":
		return CategoryService, true
	}
	return "", false
}
