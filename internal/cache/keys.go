package cache

import "strings"

// Key is a hierarchical query key. A key invalidates every key it prefixes.
type Key []string

func (k Key) String() string {
	return strings.Join(k, "/")
}

// HasPrefix reports whether p is a leading segment run of k.
func (k Key) HasPrefix(p Key) bool {
	if len(p) > len(k) {
		return false
	}
	for i := range p {
		if k[i] != p[i] {
			return false
		}
	}
	return true
}

func (k Key) with(parts ...string) Key {
	out := make(Key, 0, len(k)+len(parts))
	out = append(out, k...)
	return append(out, parts...)
}

// Painting query keys.
var (
	PaintingsAll   = Key{"paintings"}
	PaintingsLists = PaintingsAll.with("list")
	PaintingsMine  = PaintingsAll.with("my")
)

// PaintingsList is the key of one list query. params is the encoded query
// string; empty means the unfiltered list.
func PaintingsList(params string) Key {
	return PaintingsLists.with(normalizeParams(params))
}

// PaintingsMy is the key of the member's own list.
func PaintingsMy(params string) Key {
	return PaintingsMine.with(normalizeParams(params))
}

// PaintingsDetail is the key of a single painting.
func PaintingsDetail(id string) Key {
	return PaintingsAll.with("detail", id)
}

func normalizeParams(params string) string {
	params = strings.TrimPrefix(params, "?")
	if params == "" {
		return "{}"
	}
	return params
}
