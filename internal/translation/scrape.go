package translation

import (
	"strings"

	"golang.org/x/net/html"

	"horse.fit/polyglot/internal/language"
)

// collectClassText walks an HTML document and returns the flattened text of
// every <tagName> element whose class attribute contains className.
func collectClassText(root *html.Node, tagName, className string) []string {
	var collected []string
	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tagName && hasClass(node, className) {
			if text := strings.TrimSpace(nodeText(node)); text != "" {
				collected = append(collected, text)
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return collected
}

func hasClass(node *html.Node, className string) bool {
	for _, attr := range node.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, candidate := range strings.Fields(attr.Val) {
			if candidate == className {
				return true
			}
		}
	}
	return false
}

func nodeText(node *html.Node) string {
	var builder strings.Builder
	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			builder.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return strings.Join(strings.Fields(builder.String()), " ")
}

// dictionaryLanguageName converts a catalog code to the lowercase English
// language name the dictionary sites use in their URLs. Regional qualifiers
// are dropped ("Chinese (Simplified)" becomes "chinese").
func dictionaryLanguageName(code string) string {
	name := strings.ToLower(language.DisplayName(code))
	if cut := strings.Index(name, " ("); cut >= 0 {
		name = name[:cut]
	}
	return name
}
