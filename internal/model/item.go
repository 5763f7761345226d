package model

// GalleryItem is one card's worth of content in the gallery.
// Items are immutable for the duration of a gallery session.
type GalleryItem struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Subtitle *string  `json:"subtitle,omitempty"`
	ImageURL string   `json:"imageUrl"`
	Width    *float64 `json:"width,omitempty"`  // intrinsic image width, if known
	Height   *float64 `json:"height,omitempty"` // intrinsic image height, if known
}

// SubtitleText returns the subtitle or "" when unset.
func (i GalleryItem) SubtitleText() string {
	if i.Subtitle == nil {
		return ""
	}
	return *i.Subtitle
}

// PlacedCard is a GalleryItem positioned on the virtual canvas.
// X and Y are the card's top-left corner in canvas units.
type PlacedCard struct {
	GalleryItem
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"` // degrees
}

// Items converts paintings into gallery items, preserving order.
func Items(paintings []Painting) []GalleryItem {
	items := make([]GalleryItem, len(paintings))
	for i, p := range paintings {
		items[i] = p.Item()
	}
	return items
}
