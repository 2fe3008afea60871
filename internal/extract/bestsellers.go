package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/scrapework/harvester/internal/crawl"
)

// BestsellerHeader is the fixed column set for the bestseller pipeline.
var BestsellerHeader = []string{
	"Date",
	"Book Name",
	"Book Author",
	"Book Description",
	"Weeks on the List/New This Week",
}

// Book is one bestseller list entry.
type Book struct {
	Date        string
	Name        string
	Author      string
	Description string
	WeeksOnList string
}

// Row implements crawl.Record.
func (b Book) Row() []string {
	return []string{b.Date, b.Name, b.Author, b.Description, b.WeeksOnList}
}

// BestsellerList extracts the entries of one weekly bestseller list page.
// The list date is read from the page URL, which embeds it as
// /books/best-sellers/YYYY/MM/DD/<list>/.
type BestsellerList struct{}

// Extract implements crawl.Extractor.
func (BestsellerList) Extract(page crawl.Page) (crawl.Extraction, error) {
	doc, err := parse(page)
	if err != nil {
		return crawl.Extraction{}, err
	}

	list := doc.Find("ol[data-testid='topic-list']")
	if list.Length() == 0 {
		return crawl.Extraction{}, malformed(page.URL, "ol[data-testid='topic-list']")
	}

	date := listDateFromURL(page.URL)
	var extraction crawl.Extraction
	list.First().Find("li").Each(func(_ int, item *goquery.Selection) {
		extraction.Records = append(extraction.Records, Book{
			Date:        date,
			Name:        textOr(item.Find("h3.css-5pe77f"), Placeholder),
			Author:      textOr(item.Find("p.css-hjukut"), Placeholder),
			Description: textOr(item.Find("p.css-14lubdp"), Placeholder),
			WeeksOnList: textOr(item.Find("p.css-1o26r9v"), Placeholder),
		})
	})
	return extraction, nil
}

func listDateFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Placeholder
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, segment := range segments {
		if segment == "best-sellers" && i+3 < len(segments) {
			return strings.Join(segments[i+1:i+4], "/")
		}
	}
	return Placeholder
}
