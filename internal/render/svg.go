// Package render draws a timeline grid as a standalone SVG document using
// the same geometry as the interactive grid.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/timeline"
	"gopkg.in/yaml.v3"
)

// Style controls fonts and colors. It can be loaded from YAML.
type Style struct {
	Font struct {
		Family string `yaml:"family"`
		Size   int    `yaml:"size"`
	} `yaml:"font"`
	Colors struct {
		Background string `yaml:"background"`
		Grid       string `yaml:"grid"`
		Text       string `yaml:"text"`
		Label      string `yaml:"label"`
		ItemText   string `yaml:"item_text"`
	} `yaml:"colors"`
	HeaderHeight int `yaml:"header_height"`
}

// DefaultStyle returns the built-in style.
func DefaultStyle() Style {
	var s Style
	s.Font.Family = "Arial, sans-serif"
	s.Font.Size = 12
	s.Colors.Background = "#ffffff"
	s.Colors.Grid = "#e0e0e0"
	s.Colors.Text = "#333333"
	s.Colors.Label = "#f5f5f5"
	s.Colors.ItemText = "#ffffff"
	s.HeaderHeight = 30
	return s
}

// LoadStyle reads a YAML style file over the defaults.
func LoadStyle(path string) (Style, error) {
	style := DefaultStyle()
	data, err := os.ReadFile(path)
	if err != nil {
		return style, err
	}
	if err := yaml.Unmarshal(data, &style); err != nil {
		return style, fmt.Errorf("parsing style %s: %w", path, err)
	}
	return style, nil
}

// SVG writes t as seen through v. Only the first units header units are
// drawn; zero means the full header span.
func SVG(w io.Writer, t domain.Timeline, v timeline.Viewport, units int, style Style) error {
	if units <= 0 || units > timeline.TotalUnits(v.Mode) {
		units = timeline.TotalUnits(v.Mode)
	}
	rows := timeline.SortRows(t.Rows)
	header := float64(style.HeaderHeight)
	width := v.RowLabelWidth + float64(units)*v.PixelsPerUnit
	height := header + float64(len(rows))*v.RowHeight

	var svg strings.Builder
	fmt.Fprintf(&svg, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%s" height="%s" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
<style>
.marker-text { font-family: %s; font-size: %dpx; fill: %s; }
.row-text { font-family: %s; font-size: %dpx; font-weight: bold; fill: %s; }
.item-title { font-family: %s; font-size: %dpx; font-weight: bold; fill: %s; }
.item-subtitle { font-family: %s; font-size: %dpx; fill: %s; }
</style>
</defs>
`, num(width), num(height), style.Colors.Background,
		style.Font.Family, style.Font.Size-1, style.Colors.Text,
		style.Font.Family, style.Font.Size, style.Colors.Text,
		style.Font.Family, style.Font.Size, style.Colors.ItemText,
		style.Font.Family, style.Font.Size-2, style.Colors.ItemText)

	markers := v.Markers()[:units]
	for _, m := range markers {
		fmt.Fprintf(&svg, `<line x1="%s" y1="0" x2="%s" y2="%s" stroke="%s"/>`+"\n",
			num(m.X), num(m.X), num(height), style.Colors.Grid)
		fmt.Fprintf(&svg, `<text class="marker-text" x="%s" y="%s">%s</text>`+"\n",
			num(m.X+4), num(header-10), escapeXML(m.Label))
	}

	fmt.Fprintf(&svg, `<rect x="0" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		num(header), num(v.RowLabelWidth), num(height-header), style.Colors.Label)
	for i, r := range rows {
		y := header + float64(i)*v.RowHeight
		fmt.Fprintf(&svg, `<line x1="0" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
			num(y), num(width), num(y), style.Colors.Grid)
		fmt.Fprintf(&svg, `<text class="row-text" x="8" y="%s">%s</text>`+"\n",
			num(y+v.RowHeight/2+4), escapeXML(r.Name))
	}

	for _, p := range v.PlaceAll(t) {
		writeItem(&svg, p, header, style)
	}

	svg.WriteString("</svg>\n")
	_, err := io.WriteString(w, svg.String())
	return err
}

func writeItem(svg *strings.Builder, p timeline.Placement, header float64, style Style) {
	r := p.Rect
	y := r.Y + header
	color := domain.CoalesceStr(p.Item.Color, domain.DefaultColors[0])
	fmt.Fprintf(svg, `<g id="item-%s">`+"\n", escapeXML(p.Item.ID))
	fmt.Fprintf(svg, `<rect x="%s" y="%s" width="%s" height="%s" rx="4" fill="%s"/>`+"\n",
		num(r.X), num(y), num(r.Width), num(r.Height), escapeXML(color))
	if r.Width < timeline.TooltipWidth {
		// Narrow items keep their title as a hover tooltip only.
		fmt.Fprintf(svg, `<title>%s</title>`+"\n", escapeXML(p.Item.Title))
	} else {
		fmt.Fprintf(svg, `<text class="item-title" x="%s" y="%s">%s</text>`+"\n",
			num(r.X+6), num(y+18), escapeXML(p.Item.Title))
		if p.Item.Subtitle != "" {
			fmt.Fprintf(svg, `<text class="item-subtitle" x="%s" y="%s">%s</text>`+"\n",
				num(r.X+6), num(y+34), escapeXML(p.Item.Subtitle))
		}
	}
	svg.WriteString("</g>\n")
}

func num(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
