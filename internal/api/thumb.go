package api

import (
	"fmt"
	"net/url"
	"strings"
)

const cloudinaryHost = "res.cloudinary.com"

// CloudinaryThumb rewrites a Cloudinary delivery URL to an auto-format,
// auto-quality rendition fitted to width. Other URLs are returned as is.
func CloudinaryThumb(raw string, width int) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() != cloudinaryHost {
		return raw
	}

	parts := strings.Split(u.Path, "/")
	idx := -1
	for i, p := range parts {
		if p == "upload" {
			idx = i
			break
		}
	}
	if idx == -1 {
		return raw
	}

	tx := fmt.Sprintf("f_auto,q_auto,w_%d,c_fit", width)
	before := strings.Join(parts[:idx+1], "/")
	after := strings.Join(parts[idx+1:], "/")
	u.Path = before + "/" + tx + "/" + after
	u.RawPath = ""
	return u.String()
}
