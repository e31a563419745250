package sheet

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// readHTML returns the rows of the first <table> in an HTML document. Some
// marketplaces serve their ".xls" downloads in this shape.
func readHTML(data []byte) ([][]string, error) {
	doc, err := html.Parse(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := findElement(doc, "table")
	if table == nil {
		return nil, fmt.Errorf("HTML document has no table")
	}

	var rows [][]string
	collectRows(table, &rows)
	return rows, nil
}

// findElement returns the first element named tag in document order.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// collectRows appends every <tr> under n, without descending into nested
// tables.
func collectRows(n *html.Node, rows *[][]string) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "tr":
			*rows = append(*rows, rowCells(c))
		case "table":
		default:
			collectRows(c, rows)
		}
	}
}

func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			var sb strings.Builder
			nodeText(c, &sb)
			cells = append(cells, strings.TrimSpace(sb.String()))
		}
	}
	return cells
}

func nodeText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
	case html.ElementNode:
		if n.Data == "br" {
			sb.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		nodeText(c, sb)
	}
}
