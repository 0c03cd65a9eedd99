package htmlutil

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CellText extracts the visible text of a selection, trimmed and with
// runs of inner whitespace collapsed to a single space.
func CellText(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, node := range sel.Nodes {
		buffer.WriteString(GetText(node))
	}
	text := strings.TrimSpace(buffer.String())
	return innerWhitespace.ReplaceAllString(text, " ")
}

// RowCellTexts returns the text of every td/th cell of a table row,
// in document order.
func RowCellTexts(row *goquery.Selection) []string {
	var texts []string
	row.Find("td,th").Each(func(_ int, cell *goquery.Selection) {
		texts = append(texts, CellText(cell))
	})
	return texts
}
