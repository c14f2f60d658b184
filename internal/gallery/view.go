package gallery

import (
	"github.com/Manikan-10/Party-Planners-Client/internal/category"
)

// Placeholder is shown for a category without images.
const Placeholder = "No images in this category yet. Go to Admin → Web Content → Gallery to upload images."

// ErrUnknownCategory is returned for a category outside the fixed set.
var ErrUnknownCategory = category.ErrUnknown

// View is one category ready to render.
type View struct {
	Category    category.Category `json:"category"`
	Images      []Image           `json:"images"`
	Empty       bool              `json:"empty"`
	Placeholder string            `json:"placeholder,omitempty"`
}

// Show returns every indexed image of c. It reads memory only. Repeated URLs
// are removed and the cleaned list is written back to the state.
func (s *State) Show(c category.Category) (*View, error) {
	if !c.Valid() {
		return nil, ErrUnknownCategory
	}

	unique := s.dedupe(c)
	v := &View{Category: c, Images: unique, Empty: len(unique) == 0}
	if v.Empty {
		v.Placeholder = Placeholder
	}
	return v, nil
}
