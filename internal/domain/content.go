package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Image is a single rendition of a picture attached to content.
type Image struct {
	URL    string `json:"url"`
	Alt    string `json:"alt,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// ImageSet holds renditions keyed by position ("0", "1", ...).
// The API sends either a JSON array or an object keyed by index.
type ImageSet map[string]Image

// UnmarshalJSON implements json.Unmarshaler.
func (s *ImageSet) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}

	if data[0] == '[' {
		var list []Image
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		out := make(ImageSet, len(list))
		for i, img := range list {
			out[strconv.Itoa(i)] = img
		}
		*s = out
		return nil
	}

	var m map[string]Image
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = m
	return nil
}

// Preferred returns the rendition at key, falling back to any rendition.
func (s ImageSet) Preferred(key string) (Image, bool) {
	if img, ok := s[key]; ok && img.URL != "" {
		return img, true
	}
	for i := 0; i < len(s); i++ {
		if img, ok := s[strconv.Itoa(i)]; ok && img.URL != "" {
			return img, true
		}
	}
	return Image{}, false
}

// Destination is a tourism catalog entry (attraction, lodging, restaurant...).
type Destination struct {
	ID         ID       `json:"id"`
	Title      string   `json:"title"`
	Body       string   `json:"body,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	CategoryID string   `json:"category_id,omitempty"`
	LocationID int      `json:"location_id,omitempty"`
	Address    string   `json:"address,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Email      string   `json:"email,omitempty"`
	Website    string   `json:"website,omitempty"`
	Latitude   float64  `json:"latitude,omitempty"`
	Longitude  float64  `json:"longitude,omitempty"`
	Images     ImageSet `json:"images,omitempty"`
}

// ItemID implements Item.
func (d Destination) ItemID() string {
	return string(d.ID)
}

// MainImage is the lead picture of a news article.
type MainImage struct {
	Images ImageSet `json:"images"`
}

// News is a news article published by the catalog.
type News struct {
	ID          ID         `json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body,omitempty"`
	PublishedAt string     `json:"published_at,omitempty"`
	MainImage   *MainImage `json:"imagen_principal,omitempty"`
}

// ItemID implements Item.
func (n News) ItemID() string {
	return string(n.ID)
}
