package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"
	"io"

	domain "gohousehold/domain/household"

	"gonum.org/v1/plot/plotutil"
)

// Rect is one laid-out treemap cell. Depth 0 cells are districts, depth 1 their types.
type Rect struct {
	Name   string
	Parent string
	Value  int64
	Depth  int
	X, Y   float64
	W, H   float64
}

// Treemap lays the tree out with slice-and-dice: districts split the width in proportion
// to their value, and each district's types split its height. Zero-valued nodes get no area.
func Treemap(nodes []domain.TreeNode, width, height float64) []Rect {
	var total int64
	for _, n := range nodes {
		total += n.Value
	}
	if total <= 0 || width <= 0 || height <= 0 {
		return nil
	}

	var rects []Rect
	x := 0.0
	for _, n := range nodes {
		if n.Value <= 0 {
			continue
		}
		w := width * float64(n.Value) / float64(total)
		rects = append(rects, Rect{Name: n.Name, Value: n.Value, X: x, Y: 0, W: w, H: height})

		y := 0.0
		for _, child := range n.Children {
			if child.Value <= 0 {
				continue
			}
			h := height * float64(child.Value) / float64(n.Value)
			rects = append(rects, Rect{
				Name:   child.Name,
				Parent: n.Name,
				Value:  child.Value,
				Depth:  1,
				X:      x,
				Y:      y,
				W:      w,
				H:      h,
			})
			y += h
		}
		x += w
	}
	return rects
}

// TreemapSVG writes the laid-out tree as a standalone SVG element
func TreemapSVG(w io.Writer, nodes []domain.TreeNode, width, height float64) error {
	rects := Treemap(nodes, width, height)
	if len(rects) == 0 {
		return ErrNoData
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`,
		width, height, width, height)
	district := -1
	for _, r := range rects {
		if r.Depth == 0 {
			district++
			continue
		}
		fmt.Fprintf(&buf, `<g><title>%s / %s: %d</title>`, escape(r.Parent), escape(r.Name), r.Value)
		fmt.Fprintf(&buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="#ffffff" stroke-width="1"/>`,
			r.X, r.Y, r.W, r.H, hex(plotutil.Color(district)))
		if r.W > 40 && r.H > 16 {
			fmt.Fprintf(&buf, `<text x="%.2f" y="%.2f" font-size="11" fill="#ffffff">%s %d</text>`,
				r.X+4, r.Y+14, escape(r.Name), r.Value)
		}
		buf.WriteString(`</g>`)
	}
	for _, r := range rects {
		if r.Depth != 0 {
			continue
		}
		fmt.Fprintf(&buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#333333" stroke-width="2"/>`,
			r.X, r.Y, r.W, r.H)
		if r.W > 40 {
			fmt.Fprintf(&buf, `<text x="%.2f" y="%.2f" font-size="13" font-weight="bold" fill="#111111">%s</text>`,
				r.X+4, r.Y+r.H-6, escape(r.Name))
		}
	}
	buf.WriteString(`</svg>`)

	_, err := buf.WriteTo(w)
	return err
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
