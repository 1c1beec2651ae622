package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText concatenates every text node under `node`.
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
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		getTextRecursive(child, buffer)
	}
}

var innerWhitespace = regexp.MustCompile(`\s+`)

func removeNonPrintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}

// NormalizeText strips non-printable characters and collapses whitespace the
// way a browser renders text.
func NormalizeText(s string) string {
	s = removeNonPrintable(s)
	s = innerWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NodeText is the normalized text of a single node.
func NodeText(node *html.Node) string {
	return NormalizeText(GetText(node))
}

// ContainsText reports whether the normalized text of `node` contains `text`,
// ignoring case.
func ContainsText(node *html.Node, text string) bool {
	return strings.Contains(
		strings.ToLower(NodeText(node)),
		strings.ToLower(NormalizeText(text)),
	)
}

// FilterText keeps the elements of the selection whose text contains `text`.
func FilterText(sel *goquery.Selection, text string) *goquery.Selection {
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		for _, n := range s.Nodes {
			if ContainsText(n, text) {
				return true
			}
		}
		return false
	})
}
