// Package art turns downloaded image bytes into an ASCII-art HTML document.
package art

import (
	"fmt"
	"html"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/qeesung/image2ascii/ascii"
)

const (
	// DefaultWidth is the number of character columns in a rendering.
	DefaultWidth = 100

	// DefaultTitle is used in the document head when none is given.
	DefaultTitle = "ASCII cat"

	// charAspect compensates for glyphs being about twice as tall as wide.
	charAspect = 0.5
)

// RenderOptions selects how a rendering is wrapped.
type RenderOptions struct {
	// Document wraps the art in a full HTML document shell.
	Document bool
	// Metadata adds a head block with title and meta tags. Only used with Document.
	Metadata bool
	// Width is the target column count. Zero means DefaultWidth.
	Width int
	// Title overrides DefaultTitle.
	Title string
}

// DefaultRenderOptions returns the self-contained document flavour.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Document: true,
		Metadata: true,
		Width:    DefaultWidth,
		Title:    DefaultTitle,
	}
}

// Render converts img into colored ASCII art wrapped according to opts.
// The output depends only on img and opts.
func Render(img image.Image, opts RenderOptions) string {
	cols, rows := gridSize(img.Bounds(), opts.Width)
	scaled := imaging.Resize(img, cols, rows, imaging.Lanczos)

	converter := ascii.NewPixelConverter()
	pixelOpts := ascii.NewOptions()
	pixelOpts.Colored = false

	var sb strings.Builder
	if opts.Document {
		writeHead(&sb, opts)
	}

	sb.WriteString(`<pre style="font-family:monospace;font-size:8px;line-height:8px;background:#000;">`)
	sb.WriteString("\n")
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := scaled.NRGBAAt(x, y)
			ch := converter.ConvertPixelToASCII(c, &pixelOpts)
			fmt.Fprintf(&sb, `<span style="color:#%02x%02x%02x">%s</span>`, c.R, c.G, c.B, html.EscapeString(ch))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("</pre>\n")

	if opts.Document {
		sb.WriteString("</body>\n</html>\n")
	}
	return sb.String()
}

func writeHead(sb *strings.Builder, opts RenderOptions) {
	sb.WriteString("<!DOCTYPE html>\n<html>\n")
	if opts.Metadata {
		title := opts.Title
		if title == "" {
			title = DefaultTitle
		}
		sb.WriteString("<head>\n")
		sb.WriteString(`<meta charset="utf-8">` + "\n")
		sb.WriteString(`<meta name="generator" content="catscii">` + "\n")
		fmt.Fprintf(sb, "<title>%s</title>\n", html.EscapeString(title))
		sb.WriteString("</head>\n")
	}
	sb.WriteString(`<body style="background:#000;">` + "\n")
}

// gridSize returns the character grid for an image of the given bounds.
func gridSize(b image.Rectangle, width int) (cols, rows int) {
	cols = width
	if cols <= 0 {
		cols = DefaultWidth
	}
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return cols, 1
	}
	rows = int(math.Round(float64(b.Dy()) * float64(cols) / float64(b.Dx()) * charAspect))
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}
