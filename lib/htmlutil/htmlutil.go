package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

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

// FirstOwnText returns the first direct text node of the selection's first
// element, skipping text contributed by child elements. This matters for
// cells that hold a player name as loose text next to a nested team tag.
func FirstOwnText(sel *goquery.Selection) string {
	if len(sel.Nodes) == 0 {
		return ""
	}
	child := sel.Nodes[0].FirstChild
	for child != nil {
		if child.Type == html.TextNode {
			text := CleanText(child.Data)
			if text != "" {
				return text
			}
		}
		child = child.NextSibling
	}
	return ""
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		switch {
		case unicode.IsSpace(c):
			newStr.WriteRune(' ')
		case unicode.IsPrint(c):
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	s = innerWhitespace.ReplaceAllString(s, " ")
	return s
}

// Text is CleanText applied to the full text content of a selection.
func Text(sel *goquery.Selection) string {
	return CleanText(sel.Text())
}

// NormalizeAssetURL rewrites the relative URL forms found in img[src]
// attributes to absolute ones. Protocol-relative URLs become https,
// root-relative ones are joined onto origin, anything else passes through.
func NormalizeAssetURL(origin, src string) string {
	if src == "" {
		return src
	}
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	if strings.HasPrefix(src, "/") {
		return strings.TrimSuffix(origin, "/") + src
	}
	return src
}
