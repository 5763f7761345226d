package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/gallery/internal/api"
	"github.com/nikbrunner/gallery/internal/model"
	"github.com/nikbrunner/gallery/internal/scatter"
)

// ThumbWidth is the Cloudinary rendition width used for card images.
const ThumbWidth = 900

// Options controls the exported page.
type Options struct {
	Title   string
	Scatter bool           // absolute, tilted cards instead of a grid
	Params  scatter.Params // canvas geometry for scatter pages
}

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/gallery-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("gallery-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML renders the catalog as a self-contained HTML page.
func ExportHTML(catalog *model.Catalog, opts Options) string {
	if opts.Title == "" {
		opts.Title = "Paintings"
	}
	if opts.Params.Size <= 0 {
		opts.Params = scatter.DefaultParams()
	}

	var b strings.Builder
	title := html.EscapeString(opts.Title)

	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", title)
	b.WriteString("<style>\n")
	writeStyles(&b, opts)
	b.WriteString("</style>\n</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", title)

	if opts.Scatter {
		writeScatter(&b, catalog, opts.Params)
	} else {
		writeGrid(&b, catalog)
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func writeStyles(b *strings.Builder, opts Options) {
	p := opts.Params
	b.WriteString("body{margin:0;font-family:system-ui,sans-serif;background:#fafaf9;color:#1c1917}\n")
	b.WriteString("h1{font-size:1.25rem;padding:0 1rem}\n")
	b.WriteString("figure{margin:0;background:#fff;border:1px solid #e7e5e4;border-radius:12px;overflow:hidden;box-shadow:0 4px 12px rgba(0,0,0,.08)}\n")
	b.WriteString("figure img{display:block;width:100%;object-fit:contain;background:#f5f5f4}\n")
	b.WriteString("figcaption{padding:.5rem .75rem}\nfigcaption span{display:block;color:#78716c;font-size:.875rem}\n")
	if opts.Scatter {
		b.WriteString(".viewport{width:100vw;height:90vh;overflow:auto;cursor:grab}\n")
		fmt.Fprintf(b, ".canvas{position:relative;width:%gpx;height:%gpx}\n", p.Size, p.Size)
		fmt.Fprintf(b, ".card{position:absolute;width:%gpx;height:%gpx}\n", p.CardWidth, p.CardHeight)
		fmt.Fprintf(b, ".card img{height:%gpx}\n", p.CardHeight*0.75)
		return
	}
	b.WriteString(".grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(240px,1fr));gap:1.5rem;padding:1rem}\n")
	b.WriteString(".grid img{aspect-ratio:4/3}\n")
}

func writeScatter(b *strings.Builder, catalog *model.Catalog, p scatter.Params) {
	cards := scatter.Layout(catalog.Items(), p)

	b.WriteString("<div class=\"viewport\">\n<div class=\"canvas\">\n")
	for i, card := range cards {
		style := fmt.Sprintf("left:%gpx;top:%gpx;transform:rotate(%.2fdeg)", card.X, card.Y, card.Rotation)
		writeFigure(b, catalog.Paintings[i], "card", style)
	}
	b.WriteString("</div>\n</div>\n")
	b.WriteString(centerScript)
}

// centerScript opens the scatter page on the middle of the canvas, where the
// first cards are placed.
const centerScript = "<script>(function(v){v.scrollLeft=(v.scrollWidth-v.clientWidth)/2;" +
	"v.scrollTop=(v.scrollHeight-v.clientHeight)/2})(document.querySelector(\".viewport\"))</script>\n"

func writeGrid(b *strings.Builder, catalog *model.Catalog) {
	b.WriteString("<div class=\"grid\">\n")
	for _, p := range catalog.Paintings {
		writeFigure(b, p, "cell", "")
	}
	b.WriteString("</div>\n")
}

func writeFigure(b *strings.Builder, p model.Painting, class, style string) {
	fmt.Fprintf(b, "<figure class=\"%s\" data-id=\"%s\"", class, html.EscapeString(p.ID))
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(b, " data-created=\"%s\"", p.CreatedAt.UTC().Format(time.RFC3339))
	}
	if style != "" {
		fmt.Fprintf(b, " style=\"%s\"", style)
	}
	b.WriteString(">\n")

	fmt.Fprintf(b, "  <img src=\"%s\" data-full=\"%s\" alt=\"%s\"",
		html.EscapeString(api.CloudinaryThumb(p.ImageURL, ThumbWidth)),
		html.EscapeString(p.ImageURL),
		html.EscapeString(p.Title),
	)
	if p.Description != nil && *p.Description != "" {
		fmt.Fprintf(b, " title=\"%s\"", html.EscapeString(*p.Description))
	}
	b.WriteString(" loading=\"lazy\">\n")

	fmt.Fprintf(b, "  <figcaption><strong>%s</strong>", html.EscapeString(p.Title))
	if artist := p.Artist(); artist != "" {
		fmt.Fprintf(b, "<span>%s</span>", html.EscapeString(artist))
	}
	b.WriteString("</figcaption>\n</figure>\n")
}
