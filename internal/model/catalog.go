package model

import "fmt"

// Catalog holds the locally known paintings in display order.
type Catalog struct {
	Paintings []Painting `json:"paintings"`
}

// NewCatalog creates an empty Catalog with an initialized slice.
func NewCatalog() *Catalog {
	return &Catalog{
		Paintings: []Painting{},
	}
}

// GetPaintingByID finds a painting by ID, returns nil if not found.
func (c *Catalog) GetPaintingByID(id string) *Painting {
	for i := range c.Paintings {
		if c.Paintings[i].ID == id {
			return &c.Paintings[i]
		}
	}
	return nil
}

// HasImageURL reports whether a painting with the given image URL exists.
func (c *Catalog) HasImageURL(url string) bool {
	for _, p := range c.Paintings {
		if p.ImageURL == url {
			return true
		}
	}
	return false
}

// AddPainting appends a painting to the catalog.
func (c *Catalog) AddPainting(p Painting) {
	c.Paintings = append(c.Paintings, p)
}

// Upsert replaces the painting with the same ID or appends it.
// Returns true when an existing painting was replaced.
func (c *Catalog) Upsert(p Painting) bool {
	if existing := c.GetPaintingByID(p.ID); existing != nil {
		*existing = p
		return true
	}
	c.AddPainting(p)
	return false
}

// RemovePainting deletes the painting with the given ID.
func (c *Catalog) RemovePainting(id string) error {
	for i := range c.Paintings {
		if c.Paintings[i].ID == id {
			c.Paintings = append(c.Paintings[:i], c.Paintings[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("painting not found: %s", id)
}

// ImportMerge appends paintings whose image URL is not yet in the catalog.
// Returns (added, skipped) counts.
func (c *Catalog) ImportMerge(paintings []Painting) (added, skipped int) {
	for _, p := range paintings {
		if c.HasImageURL(p.ImageURL) {
			skipped++
			continue
		}
		c.AddPainting(p)
		added++
	}
	return added, skipped
}

// Replace swaps the catalog contents for a freshly synced list.
func (c *Catalog) Replace(paintings []Painting) {
	c.Paintings = append([]Painting{}, paintings...)
}

// Items returns the catalog as gallery items.
func (c *Catalog) Items() []GalleryItem {
	return Items(c.Paintings)
}
