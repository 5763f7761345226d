package search

import (
	"strings"

	"github.com/nikbrunner/gallery/internal/model"
	"github.com/sahilm/fuzzy"
)

// Filter keeps the items whose title or subtitle contains query,
// case-insensitively. An empty or blank query returns items unchanged;
// otherwise surrounding whitespace is part of the match.
func Filter(items []model.GalleryItem, query string) []model.GalleryItem {
	if strings.TrimSpace(query) == "" {
		return items
	}
	q := strings.ToLower(query)

	out := make([]model.GalleryItem, 0, len(items))
	for _, it := range items {
		if Matches(it, q) {
			out = append(out, it)
		}
	}
	return out
}

// Matches reports whether item matches an already lowercased query.
func Matches(item model.GalleryItem, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(item.Title), lowerQuery) {
		return true
	}
	return strings.Contains(strings.ToLower(item.SubtitleText()), lowerQuery)
}

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Painting       *model.Painting
	MatchedIndexes []int
	Score          int
}

// paintingTitles implements fuzzy.Source over "title artist".
type paintingTitles []*model.Painting

func (pt paintingTitles) String(i int) string {
	if artist := pt[i].Artist(); artist != "" {
		return pt[i].Title + " " + artist
	}
	return pt[i].Title
}

func (pt paintingTitles) Len() int {
	return len(pt)
}

// FuzzySearchPaintings searches the catalog by title and artist.
// Returns results sorted by match score (best first).
func FuzzySearchPaintings(catalog *model.Catalog, query string) []SearchResult {
	if query == "" {
		return nil
	}

	paintings := make(paintingTitles, len(catalog.Paintings))
	for i := range catalog.Paintings {
		paintings[i] = &catalog.Paintings[i]
	}

	matches := fuzzy.FindFrom(query, paintings)

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Painting:       paintings[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
