package trace

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts a trace to Graphviz DOT format: a top-to-bottom chain of
// step nodes from the input state to the output state. Comparisons render
// as ellipses, exchanges as filled boxes, so the physical work of a run is
// visible at a glance. The resulting DOT string can be rendered with
// [RenderSVG] or [RenderPNG].
func ToDOT(t *Trace) string {
	var buf bytes.Buffer
	buf.WriteString("digraph trace {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.25;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  input [shape=box, style=\"rounded,filled\", fillcolor=lightyellow, label=%q];\n",
		"input: "+fmtValues(t.Input))
	for _, s := range t.Steps {
		fmt.Fprintf(&buf, "  s%d [%s];\n", s.Seq, strings.Join(stepAttrs(s), ", "))
	}
	fmt.Fprintf(&buf, "  output [shape=box, style=\"rounded,filled\", fillcolor=lightgreen, label=%q];\n",
		"output: "+fmtValues(t.Output))

	buf.WriteString("\n")
	prev := "input"
	for _, s := range t.Steps {
		cur := fmt.Sprintf("s%d", s.Seq)
		fmt.Fprintf(&buf, "  %s -> %s;\n", prev, cur)
		prev = cur
	}
	fmt.Fprintf(&buf, "  %s -> output;\n", prev)

	buf.WriteString("}\n")
	return buf.String()
}

func stepAttrs(s Step) []string {
	label := fmt.Sprintf("%s(%d, %d)", s.Kind, s.I, s.J)
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if s.Kind == KindSwap {
		attrs = append(attrs, "shape=box", "style=filled", "fillcolor=lightblue")
	} else {
		attrs = append(attrs, "shape=ellipse")
	}
	return attrs
}

func fmtValues(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(dot, graphviz.SVG, &buf); err != nil {
		return nil, err
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(dot, graphviz.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func render(dot string, format graphviz.Format, buf *bytes.Buffer) error {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	if err := gv.Render(ctx, g, format, buf); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element so the diagram scales
// cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
