// Package extract maps raw page content to structured records or next-stage
// links. Extractors are total: for any input bytes they produce records with
// placeholder values for absent fields, and only a missing primary container
// is reported as a malformed page.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/scrapework/harvester/internal/crawl"
)

// Placeholder substitutes for any field the page does not carry.
const Placeholder = "N/A"

func parse(page crawl.Page) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", crawl.ErrMalformedPage, err)
	}
	return doc, nil
}

func malformed(url, container string) error {
	return fmt.Errorf("%w: %s missing %q", crawl.ErrMalformedPage, url, container)
}

// textOr returns the trimmed text of the first match, or the placeholder when
// the selection is empty.
func textOr(sel *goquery.Selection, fallback string) string {
	if sel.Length() == 0 {
		return fallback
	}
	text := strings.TrimSpace(sel.First().Text())
	if text == "" {
		return fallback
	}
	return text
}

// strippedStrings collects every non-empty trimmed text fragment under the
// selection, in document order.
func strippedStrings(sel *goquery.Selection) []string {
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				out = append(out, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range sel.Nodes {
		walk(node)
	}
	return out
}
