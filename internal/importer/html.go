package importer

import (
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/nikbrunner/gallery/internal/model"
	"golang.org/x/net/html"
)

// ParseHTMLPaintings extracts paintings from an HTML page: every <figure>
// that holds an image, plus standalone <img> tags. Relative image sources
// are resolved against base when it is non-nil. Images without a usable
// source are skipped, and each source is returned once.
func ParseHTMLPaintings(r io.Reader, base *url.URL) ([]model.Painting, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var paintings []model.Painting
	seen := map[string]bool{}

	add := func(p model.Painting) {
		if p.ImageURL == "" || seen[p.ImageURL] {
			return
		}
		seen[p.ImageURL] = true
		paintings = append(paintings, p)
	}

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "figure":
				if img := findElement(n, "img"); img != nil {
					add(fromFigure(n, img, base))
				}
				return // Don't recurse into figure

			case "img":
				add(fromImage(n, base))
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return paintings, nil
}

// fromFigure reads the caption: a <strong> or heading holds the title and a
// <span> the artist. A caption without them is the title as a whole.
func fromFigure(fig, img *html.Node, base *url.URL) model.Painting {
	p := fromImage(img, base)

	if caption := findElement(fig, "figcaption"); caption != nil {
		titleNode := findElement(caption, "strong", "h2", "h3", "h4")
		if titleNode != nil {
			if title := getTextContent(titleNode); title != "" {
				p.Title = title
			}
		} else if text := getTextContent(caption); text != "" {
			p.Title = text
		}

		if span := findElement(caption, "span"); span != nil {
			if artist := getTextContent(span); artist != "" {
				p.User = &model.UserSummary{Name: artist}
			}
		}
	}

	if id := getAttr(fig, "data-id"); id != "" {
		p.ID = id
	}
	if created := getAttr(fig, "data-created"); created != "" {
		if ts, err := time.Parse(time.RFC3339, created); err == nil {
			p.CreatedAt = ts
			p.UpdatedAt = ts
		}
	}
	return p
}

// fromImage builds a painting from a single image. The title falls back
// from alt to the title attribute to the file name.
func fromImage(img *html.Node, base *url.URL) model.Painting {
	src := getAttr(img, "data-full")
	if src == "" {
		src = getAttr(img, "src")
	}
	src = resolve(strings.TrimSpace(src), base)

	title := strings.TrimSpace(getAttr(img, "alt"))
	if title == "" {
		title = strings.TrimSpace(getAttr(img, "title"))
	}
	if title == "" && src != "" {
		title = fileTitle(src)
	}

	p := model.NewPainting(model.NewPaintingParams{Title: title, ImageURL: src})
	if desc := strings.TrimSpace(getAttr(img, "title")); desc != "" && desc != title {
		p.Description = &desc
	}
	return p
}

// resolve returns an absolute http(s) URL, or "" for data: URIs and
// unparsable sources.
func resolve(src string, base *url.URL) string {
	if src == "" || strings.HasPrefix(src, "data:") {
		return ""
	}
	u, err := url.Parse(src)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	return u.String()
}

func fileTitle(src string) string {
	u, err := url.Parse(src)
	if err != nil {
		return src
	}
	name := path.Base(u.Path)
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	if name == "" || name == "." || name == "/" {
		return src
	}
	return name
}

// findElement returns the first descendant element with one of tags.
func findElement(n *html.Node, tags ...string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			for _, tag := range tags {
				if strings.EqualFold(c.Data, tag) {
					return c
				}
			}
		}
		if found := findElement(c, tags...); found != nil {
			return found
		}
	}
	return nil
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(text.String()), " ")
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
