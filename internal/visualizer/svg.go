// internal/visualizer/svg.go
package visualizer

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// RenderSVG writes the diagram as a standalone SVG document.
func RenderSVG(w io.Writer, d *Diagram) error {
	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" preserveAspectRatio="xMidYMid meet">`+"\n",
		d.Width, d.Height, d.Width, d.Height)
	fmt.Fprintf(&b, `  <text x="%d" y="40" text-anchor="start" font-size="16" font-weight="bold">%s</text>`+"\n",
		LPColumnX, html.EscapeString(d.Header.LPLabel))
	fmt.Fprintf(&b, `  <text x="%d" y="40" text-anchor="end" font-size="16" font-weight="bold">%s</text>`+"\n",
		DealColumnX, html.EscapeString(d.Header.DealLabel))

	for _, c := range d.Connections {
		fmt.Fprintf(&b, `  <g class="connection" data-factor="%s">`+"\n", html.EscapeString(c.Factor))
		fmt.Fprintf(&b, `    <path d="%s" stroke="%s" stroke-width="%s" fill="none" opacity="%s"/>`+"\n",
			c.Path, c.Color, num(c.StrokeWidth), num(c.Opacity))
		fmt.Fprintf(&b, `    <circle cx="%s" cy="%s" r="%s" fill="%s" opacity="0.8"/>`+"\n",
			num(c.Indicator.CX), num(c.Indicator.CY), num(c.Indicator.R), c.Indicator.Fill)
		fmt.Fprintf(&b, `    <text x="%s" y="%s" text-anchor="middle" fill="white" font-size="12" font-weight="bold">%s</text>`+"\n",
			num(c.Indicator.CX), num(c.Indicator.CY+5), c.Indicator.Label)
		b.WriteString("  </g>\n")
	}

	writeNodes(&b, d.LPNodes, -15, "end")
	writeNodes(&b, d.DealNodes, 15, "start")

	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeNodes(b *strings.Builder, nodes []Node, labelOffset float64, anchor string) {
	for _, n := range nodes {
		weight := "normal"
		if n.Bold {
			weight = "bold"
		}
		fmt.Fprintf(b, `  <g class="node node-%s">`+"\n", n.Side)
		fmt.Fprintf(b, `    <circle cx="%s" cy="%s" r="%d" fill="%s" opacity="0.8"/>`+"\n",
			num(n.X), num(n.Y), NodeRadius, NodeFill)
		fmt.Fprintf(b, `    <text x="%s" y="%s" text-anchor="%s" fill="#1C1C1C" font-size="12" font-weight="%s">%s</text>`+"\n",
			num(n.X+labelOffset), num(n.Y+5), anchor, weight, html.EscapeString(n.Factor))
		b.WriteString("  </g>\n")
	}
}
