package model

import "time"

// UserSummary is the subset of a member record embedded in other resources.
type UserSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image,omitempty"`
}

// Painting is a member-submitted artwork as served by the club backend.
type Painting struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"` // nil = no description
	ImageURL    string       `json:"imageUrl"`
	UserID      string       `json:"userId"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	User        *UserSummary `json:"user,omitempty"`
}

// NewPaintingParams holds parameters for creating a new Painting.
type NewPaintingParams struct {
	Title       string
	Description *string
	ImageURL    string
	UserID      string
}

// NewPainting creates a Painting with generated UUID and timestamps.
func NewPainting(params NewPaintingParams) Painting {
	now := time.Now()
	return Painting{
		ID:          GenerateUUID(),
		Title:       params.Title,
		Description: params.Description,
		ImageURL:    params.ImageURL,
		UserID:      params.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Artist returns the painter's display name, or "" when the backend did not
// embed the user.
func (p Painting) Artist() string {
	if p.User == nil {
		return ""
	}
	return p.User.Name
}

// Item converts the painting into a gallery item.
// The subtitle is the artist name, falling back to the description.
func (p Painting) Item() GalleryItem {
	item := GalleryItem{
		ID:       p.ID,
		Title:    p.Title,
		ImageURL: p.ImageURL,
	}
	switch {
	case p.Artist() != "":
		artist := p.Artist()
		item.Subtitle = &artist
	case p.Description != nil && *p.Description != "":
		desc := *p.Description
		item.Subtitle = &desc
	}
	return item
}
