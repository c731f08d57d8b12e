package recipe

import (
	"encoding/json"
	"html"
	"strings"
)

// RawRecipe represents a recipe as the recipe API returns it.
type RawRecipe struct {
	ID          string   `json:"recipe_id"`
	Title       string   `json:"title"`
	Publisher   string   `json:"publisher"`
	ImageURL    string   `json:"image_url"`
	SourceURL   string   `json:"source_url"`
	Ingredients []string `json:"ingredients"`
}

// UnmarshalJSON implements the json.Unmarshaler interface for RawRecipe.
// The API returns HTML-escaped titles and publishers.
func (r *RawRecipe) UnmarshalJSON(data []byte) error {
	type Alias RawRecipe // Create an alias to avoid infinite recursion
	aux := (*Alias)(r)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	r.Title = strings.TrimSpace(html.UnescapeString(r.Title))
	r.Publisher = strings.TrimSpace(html.UnescapeString(r.Publisher))
	return nil
}
