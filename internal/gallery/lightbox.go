package gallery

import "github.com/nikbrunner/gallery/internal/model"

// OpenLightbox shows the filtered item at idx. Out-of-range indexes are
// ignored.
func (s *Session) OpenLightbox(idx int) bool {
	if idx < 0 || idx >= len(s.filtered) {
		return false
	}
	s.lightbox = idx
	return true
}

// OpenLightboxID shows the filtered item with the given ID.
func (s *Session) OpenLightboxID(id string) bool {
	for i, it := range s.filtered {
		if it.ID == id {
			s.lightbox = i
			return true
		}
	}
	return false
}

// CloseLightbox hides the lightbox.
func (s *Session) CloseLightbox() { s.lightbox = -1 }

// LightboxOpen reports whether the lightbox is showing.
func (s *Session) LightboxOpen() bool { return s.lightbox >= 0 }

// LightboxIndex returns the shown index, or -1.
func (s *Session) LightboxIndex() int { return s.lightbox }

// LightboxItem returns the item being shown.
func (s *Session) LightboxItem() (model.GalleryItem, bool) {
	if s.lightbox < 0 {
		return model.GalleryItem{}, false
	}
	return s.filtered[s.lightbox], true
}

// NextImage moves the lightbox forward, wrapping to the first item.
func (s *Session) NextImage() {
	if n := len(s.filtered); s.lightbox >= 0 && n > 0 {
		s.lightbox = (s.lightbox + 1) % n
	}
}

// PrevImage moves the lightbox back, wrapping to the last item.
func (s *Session) PrevImage() {
	if n := len(s.filtered); s.lightbox >= 0 && n > 0 {
		s.lightbox = (s.lightbox + n - 1) % n
	}
}
