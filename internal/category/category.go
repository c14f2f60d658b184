// Package category defines the closed set of gallery categories and infers a
// category from an uploaded file name.
package category

import (
	"errors"
	"strings"
)

// Category tags a gallery image.
type Category string

const (
	Wedding      Category = "wedding"
	Engagement   Category = "engagement"
	Anniversary  Category = "anniversary"
	Housewarming Category = "housewarming"
	Birthday     Category = "birthday"
	Family       Category = "family"
	Travel       Category = "travel"
	Corporate    Category = "corporate"
)

// Default is shown when no category is selected.
const Default = Wedding

// ErrUnknown is returned for names outside the closed set.
var ErrUnknown = errors.New("unknown gallery category")

// All lists every category in display order. Inference checks them in this order.
var All = []Category{Wedding, Engagement, Anniversary, Housewarming, Birthday, Family, Travel, Corporate}

// keywords are matched as substrings when a name carries no category prefix.
var keywords = map[Category][]string{
	Wedding:      {"wedding"},
	Engagement:   {"engagement", "engaged", "proposal"},
	Anniversary:  {"anniversary", "anniv"},
	Housewarming: {"housewarming", "house_warming", "house-warming", "warming"},
	Birthday:     {"birthday", "birth_day", "birth-day"},
	Family:       {"family", "reunion"},
	Travel:       {"travel", "trip", "vacation", "holiday"},
	Corporate:    {"corporate", "conference", "seminar", "office"},
}

// Parse returns the category named s (case-insensitive).
func Parse(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", ErrUnknown
	}
	return c, nil
}

// Valid reports whether c is one of All.
func (c Category) Valid() bool {
	for _, known := range All {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

// AltText is the alt attribute used for every image of the category.
func (c Category) AltText() string {
	return string(c) + " image"
}

// Infer classifies an object name. A "category_" or "category-" prefix wins;
// otherwise the keyword table is searched. ok is false when nothing matches.
func Infer(name string) (c Category, ok bool) {
	lower := strings.ToLower(name)

	for _, cat := range All {
		if strings.HasPrefix(lower, string(cat)+"_") || strings.HasPrefix(lower, string(cat)+"-") {
			return cat, true
		}
	}

	for _, cat := range All {
		for _, kw := range keywords[cat] {
			if strings.Contains(lower, kw) {
				return cat, true
			}
		}
	}
	return "", false
}
