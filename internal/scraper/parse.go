package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/court-calendar/internal/hearing"
	"github.com/pfrederiksen/court-calendar/internal/logger"
)

const (
	// DetailBaseURL is prefixed to the relative case link to build Case.DetailURL.
	DetailBaseURL = "https://legacy.utcourts.gov/cal/"

	// WrapperLookback bounds how many preceding divs are inspected for the
	// time/date block of a case container.
	WrapperLookback = 5

	containerSelector  = "div.casehover"
	timeColumnSelector = "div.col-xs-8"
	dateColumnSelector = "div.col-xs-4"
	partiesSelector    = "div.col-xs-12.col-sm-4"
	infoSelector       = "div.col-xs-12.col-sm-6"
	caseSelector       = "div.case"
	bottomlineSelector = "div.bottomline"
	attorneyLabel      = "Attorney:"
)

var courtTypes = []string{"District Court", "Justice Court"}

// Parse reads an HTML search results page and returns one case per container.
// Only a document that cannot be read is an error.
func Parse(r io.Reader) ([]hearing.Case, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return ParseDocument(doc), nil
}

// ParseDocument extracts cases from an already parsed document.
func ParseDocument(doc *goquery.Document) []hearing.Case {
	containers := doc.Find(containerSelector)
	found := make([]hearing.Case, 0, containers.Length())

	containers.Each(func(_ int, container *goquery.Selection) {
		found = append(found, extractCase(doc, container))
	})

	logger.AddCounter("cases.parsed", int64(len(found)))
	return found
}

// extractCase composes the independent field extractors into one record.
func extractCase(doc *goquery.Document, container *goquery.Selection) hearing.Case {
	var c hearing.Case

	if wrapper := findWrapper(doc, container); wrapper != nil {
		timeColumn := wrapper.Find(timeColumnSelector).First()
		dateColumn := wrapper.Find(dateColumnSelector).First()
		c.Time = extractTime(timeColumn)
		c.HearingType = extractHearingType(timeColumn)
		c.Date = extractDate(dateColumn)
	}

	c.Court = extractCourt(container)
	c.DetailURL = extractDetailURL(container)
	c.CourtType = extractCourtType(container)
	c.Attorney = extractAttorney(container)
	c.Plaintiff, c.Defendant = extractParties(container)
	c.Judge, c.Room, c.HearingPurpose = extractInfo(container)
	c.WebexURL = extractWebex(container)
	c.CaseNumber, c.CaseType = extractCaseNumberAndType(container)

	return c
}

// findWrapper locates the block holding the time and date columns for a container.
// It sits before the container rather than inside it.
func findWrapper(doc *goquery.Document, container *goquery.Selection) *goquery.Selection {
	if container.Length() == 0 {
		return nil
	}
	hasColumns := func(n *html.Node) bool {
		sel := doc.FindNodes(n)
		return sel.Find(timeColumnSelector).Length() > 0 && sel.Find(dateColumnSelector).Length() > 0
	}
	node := walkBack(container.Get(0), WrapperLookback, isElement("div"), hasColumns)
	if node == nil {
		return nil
	}
	return doc.FindNodes(node)
}

func extractTime(timeColumn *goquery.Selection) string {
	return firstText(timeColumn, "strong")
}

func extractHearingType(timeColumn *goquery.Selection) string {
	return firstText(timeColumn.Find("em.little").First(), "strong")
}

func extractDate(dateColumn *goquery.Selection) string {
	return firstText(dateColumn, "strong")
}

func extractCourt(container *goquery.Selection) string {
	return firstText(container, "a.caselink")
}

func extractDetailURL(container *goquery.Selection) string {
	href, ok := container.Find("a.caselink").First().Attr("href")
	if !ok || href == "" {
		return ""
	}
	return DetailBaseURL + strings.ReplaceAll(href, " ", "%20")
}

// extractCourtType accepts the first emphasized text only when it names a court type.
func extractCourtType(container *goquery.Selection) string {
	text := firstText(container, "em")
	for _, courtType := range courtTypes {
		if strings.Contains(text, courtType) {
			return text
		}
	}
	return ""
}

// extractAttorney joins the highlighted name parts of the first "Attorney:" line.
func extractAttorney(container *goquery.Selection) string {
	var attorney string
	container.Find(bottomlineSelector).EachWithBreak(func(_ int, line *goquery.Selection) bool {
		if !strings.Contains(strippedText(line), attorneyLabel) {
			return true
		}
		var parts []string
		line.Find("span.HILI").Each(func(_ int, span *goquery.Selection) {
			parts = append(parts, strippedText(span))
		})
		attorney = strings.TrimSpace(strings.Join(parts, " "))
		return false
	})
	return attorney
}

// extractParties returns plaintiff and defendant; fewer than three segments yields neither.
func extractParties(container *goquery.Selection) (plaintiff, defendant string) {
	block := container.Find(partiesSelector).First()
	if block.Length() == 0 {
		return "", ""
	}
	parts := pipeSegments(block)
	if len(parts) < 3 {
		return "", ""
	}
	plaintiff = strings.TrimSpace(strings.ReplaceAll(parts[0], "vs.", ""))
	defendant = strings.TrimSpace(parts[2])
	return plaintiff, defendant
}

// extractInfo returns judge, room and hearing purpose from the first info block that
// has more than one segment. Later qualifying blocks are ignored rather than
// overwriting the first.
func extractInfo(container *goquery.Selection) (judge, room, purpose string) {
	container.Find(infoSelector).EachWithBreak(func(_ int, block *goquery.Selection) bool {
		parts := pipeSegments(block)
		if len(parts) < 2 {
			return true
		}
		judge = segment(parts, 0)
		room = segment(parts, 1)
		purpose = segment(parts, 2)
		return false
	})
	return judge, room, purpose
}

func extractWebex(container *goquery.Selection) string {
	var link string
	container.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.Contains(strings.ToLower(href), "webex") {
			link = href
			return false
		}
		return true
	})
	return link
}

func extractCaseNumberAndType(container *goquery.Selection) (number, caseType string) {
	block := container.Find(caseSelector).First()
	if block.Length() == 0 {
		return "", ""
	}
	parts := pipeSegments(block)
	number = strings.TrimSpace(strings.ReplaceAll(segment(parts, 0), "Case #", ""))
	caseType = segment(parts, 1)
	return number, caseType
}

// firstText returns the stripped text of the first element matching selector under sel.
func firstText(sel *goquery.Selection, selector string) string {
	match := sel.Find(selector).First()
	if match.Length() == 0 {
		return ""
	}
	return strippedText(match)
}

// strippedText concatenates the trimmed, non-empty text nodes under the first node
// of sel.
func strippedText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return strings.Join(textNodes(sel.Get(0)), "")
}

// pipeSegments joins the text nodes under sel with "|" and splits on it again, so
// sub-fields that are only separated by markup become separate segments.
func pipeSegments(sel *goquery.Selection) []string {
	if sel.Length() == 0 {
		return nil
	}
	joined := strings.Join(textNodes(sel.Get(0)), "|")
	if joined == "" {
		return nil
	}
	return strings.Split(joined, "|")
}

func segment(parts []string, i int) string {
	if i >= len(parts) {
		return ""
	}
	return strings.TrimSpace(parts[i])
}

// textNodes returns the trimmed text of every non-blank text node under n, in order.
func textNodes(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				out = append(out, t)
			}
			return
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}
