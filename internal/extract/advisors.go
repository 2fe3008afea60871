package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/scrapework/harvester/internal/crawl"
)

// AdvisorHeader is the fixed column set for the advisor pipeline.
var AdvisorHeader = []string{"First", "Last", "Street", "City", "State", "Telephone"}

// Advisor is one advisor profile record.
type Advisor struct {
	First     string
	Last      string
	Street    string
	City      string
	State     string
	Telephone string
}

// Row implements crawl.Record.
func (a Advisor) Row() []string {
	return []string{a.First, a.Last, a.Street, a.City, a.State, a.Telephone}
}

// AdvisorDirectory extracts the city/state links from the directory root.
type AdvisorDirectory struct{}

// Extract implements crawl.Extractor.
func (AdvisorDirectory) Extract(page crawl.Page) (crawl.Extraction, error) {
	doc, err := parse(page)
	if err != nil {
		return crawl.Extraction{}, err
	}

	container := doc.Find("div#city-state")
	if container.Length() == 0 {
		return crawl.Extraction{}, malformed(page.URL, "div#city-state")
	}

	var extraction crawl.Extraction
	container.Find("li a[href]").Each(func(_ int, link *goquery.Selection) {
		if href, ok := link.Attr("href"); ok && href != "" {
			extraction.Links = append(extraction.Links, href)
		}
	})
	return extraction, nil
}

// CityListing extracts advisor detail links from one city/state listing page.
type CityListing struct{}

// Extract implements crawl.Extractor.
func (CityListing) Extract(page crawl.Page) (crawl.Extraction, error) {
	doc, err := parse(page)
	if err != nil {
		return crawl.Extraction{}, err
	}

	body := doc.Find("div#first-sec-data tbody")
	if body.Length() == 0 {
		return crawl.Extraction{}, malformed(page.URL, "div#first-sec-data tbody")
	}

	var extraction crawl.Extraction
	body.Find("tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("div.firm-advisor a[href]").First()
		if href, ok := link.Attr("href"); ok && href != "" {
			extraction.Links = append(extraction.Links, href)
		}
	})
	return extraction, nil
}

// advisorLayout tags which of the two detail-page layouts a profile uses.
// The tag is resolved once per page; the matching parser runs afterwards.
type advisorLayout int

const (
	layoutUnknown advisorLayout = iota
	layoutLegacy
	layoutQualified
)

func detectAdvisorLayout(doc *goquery.Document) advisorLayout {
	if doc.Find("section.city").Length() >= 2 {
		return layoutLegacy
	}
	if doc.Find("div.qualified-advisor-profile").Length() > 0 {
		return layoutQualified
	}
	return layoutUnknown
}

// AdvisorDetail extracts one advisor profile record from a detail page,
// dispatching on the detected page layout.
type AdvisorDetail struct{}

// Extract implements crawl.Extractor.
func (AdvisorDetail) Extract(page crawl.Page) (crawl.Extraction, error) {
	doc, err := parse(page)
	if err != nil {
		return crawl.Extraction{}, err
	}

	switch detectAdvisorLayout(doc) {
	case layoutLegacy:
		return extractLegacyAdvisor(doc), nil
	case layoutQualified:
		return extractQualifiedAdvisor(doc), nil
	default:
		return crawl.Extraction{}, malformed(page.URL, "advisor profile container")
	}
}

func extractLegacyAdvisor(doc *goquery.Document) crawl.Extraction {
	detail := doc.Find("section.city").Eq(1).Find("div.col-lg-8").First()

	advisor := Advisor{
		First:     Placeholder,
		Last:      Placeholder,
		Street:    Placeholder,
		City:      Placeholder,
		State:     Placeholder,
		Telephone: Placeholder,
	}

	if name := strings.TrimSpace(detail.Find("h1").First().Text()); name != "" {
		advisor.First, advisor.Last = splitName(name)
	}

	address := detail.Find("div[style*='margin: 10px 0px 18px']").First()
	if address.Length() > 0 {
		// The first line of the block is the telephone; street lines follow.
		if lines := strippedStrings(address); len(lines) >= 3 {
			advisor.Street = strings.Join(lines[1:3], ", ")
		}
		if tel := strings.TrimSpace(strings.TrimPrefix(
			strings.TrimSpace(address.Find("div").First().Text()), "Tel:")); tel != "" {
			advisor.Telephone = tel
		}
		advisor.City, advisor.State = splitCityState(address.Find("span").First().Text())
	}

	return crawl.Extraction{Records: []crawl.Record{advisor}}
}

func extractQualifiedAdvisor(doc *goquery.Document) crawl.Extraction {
	profile := doc.Find("div.qualified-advisor-profile").First()

	advisor := Advisor{
		First:     Placeholder,
		Last:      Placeholder,
		Street:    Placeholder,
		City:      Placeholder,
		State:     Placeholder,
		Telephone: Placeholder,
	}

	if name := strings.TrimSpace(profile.Find("h1").First().Text()); name != "" {
		advisor.First, advisor.Last = splitName(name)
	}
	if street := textOr(profile.Find("div.advisor-address span.street"), ""); street != "" {
		advisor.Street = street
	}
	advisor.City, advisor.State = splitCityState(
		profile.Find("div.advisor-address span.city-state").First().Text())
	if tel := strings.TrimSpace(strings.TrimPrefix(
		textOr(profile.Find("div.advisor-address span.tel"), ""), "Tel:")); tel != "" {
		advisor.Telephone = tel
	}

	return crawl.Extraction{Records: []crawl.Record{advisor}}
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return Placeholder, Placeholder
	}
	first = parts[0]
	last = Placeholder
	if len(parts) > 1 {
		last = strings.Join(parts[1:], " ")
	}
	return first, last
}

func splitCityState(cityState string) (city, state string) {
	city, state = Placeholder, Placeholder
	parts := strings.SplitN(cityState, ",", 2)
	if v := strings.TrimSpace(parts[0]); v != "" {
		city = v
	}
	if len(parts) > 1 {
		if v := strings.TrimSpace(parts[1]); v != "" {
			state = v
		}
	}
	return city, state
}
