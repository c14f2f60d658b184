// Package content stores the editable website content, including the cached
// per-category gallery URL lists, as one JSON record.
package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Manikan-10/Party-Planners-Client/internal/category"
)

// Key is the record that holds the website content.
const Key = "website_content"

// Content is the whole editable site. Every save replaces it wholesale.
type Content struct {
	Hero     *Hero         `json:"hero,omitempty"`
	About    *About        `json:"about,omitempty"`
	Services []ServiceItem `json:"services,omitempty"`
	Contact  *Contact      `json:"contact,omitempty"`
	Gallery  Gallery       `json:"gallery,omitempty"`
}

type Hero struct {
	Badge       string `json:"badge,omitempty"`
	Title       string `json:"title,omitempty"`
	Subtitle    string `json:"subtitle,omitempty"`
	Tagline     string `json:"tagline,omitempty"`
	Description string `json:"description,omitempty"`
}

type About struct {
	Lead  string `json:"lead,omitempty"`
	Text1 string `json:"text1,omitempty"`
	Text2 string `json:"text2,omitempty"`
	Image string `json:"image,omitempty"`
}

// ServiceItem is one entry of the services section.
type ServiceItem struct {
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

type Contact struct {
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Instagram    string `json:"instagram,omitempty"`
	InstagramURL string `json:"instagramUrl,omitempty"`
	YouTube      string `json:"youtube,omitempty"`
}

// Gallery maps a category to its ordered image URLs.
type Gallery map[category.Category]URLList

// URLList is an ordered list of image URLs. It is written as a JSON array
// and also read from the older comma-and-space joined string form.
type URLList []string

// UnmarshalJSON accepts either ["a","b"] or "a, b".
func (l *URLList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return err
		}
		*l = SplitURLs(joined)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("gallery list: %w", err)
	}
	*l = Clean(list)
	return nil
}

// SplitURLs splits a comma-joined string, trims entries and drops empties.
func SplitURLs(joined string) URLList {
	return Clean(strings.Split(joined, ","))
}

// Clean trims entries and drops empties, keeping order.
func Clean(urls []string) URLList {
	out := make(URLList, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// Dedupe removes repeated URLs, keeping the first occurrence. It reports how
// many entries were removed.
func (l URLList) Dedupe() (URLList, int) {
	seen := make(map[string]struct{}, len(l))
	out := make(URLList, 0, len(l))
	for _, u := range l {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out, len(l) - len(out)
}

// Validate rejects gallery keys outside the category set.
func (c *Content) Validate() error {
	for cat := range c.Gallery {
		if !cat.Valid() {
			return fmt.Errorf("%w: %q", category.ErrUnknown, cat)
		}
	}
	return nil
}
