// Package extract maps a rendered directory page into normalized records.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/facultydir/harvester/internal/directory"
)

// Selectors for the person blocks on the rendered directory page.
const (
	personSelector   = ".wsc-facstaff-person-list-container"
	nameSelector     = ".wsc-facstaff-person-list-namejob strong a"
	positionSelector = ".wsc-facstaff-person-list-namejob p"
	photoSelector    = ".wsc-facstaff-person-list-photo img"
	deptSelector     = ".wsc-facstaff-person-list-2.box1"
	officeSelector   = ".wsc-facstaff-person-list-2.box2"
	phoneSelector    = ".wsc-facstaff-person-list-3 .box1 a"
	emailSelector    = ".wsc-facstaff-person-list-3 .box2 a"
)

// Label prefixes stripped from the labeled text blocks.
const (
	deptLabel   = "Department:"
	officeLabel = "Office location:"
)

// Config controls extraction behavior.
type Config struct {
	// Origin is prefixed onto relative image source paths.
	Origin string
}

// Extractor turns rendered HTML into records. It performs no I/O.
type Extractor struct {
	origin string
}

// New constructs an Extractor.
func New(cfg Config) *Extractor {
	return &Extractor{origin: strings.TrimRight(cfg.Origin, "/")}
}

// PersonSelector is the presence marker the crawl controller waits for.
func PersonSelector() string { return personSelector }

// Extract parses the document and returns one record per person block.
// A missing sub-element yields the missing sentinel for that field; a
// block is never rejected for incomplete data.
func (e *Extractor) Extract(html string) ([]directory.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	var records []directory.Record
	doc.Find(personSelector).Each(func(_ int, person *goquery.Selection) {
		records = append(records, e.extractPerson(person))
	})
	return records, nil
}

func (e *Extractor) extractPerson(person *goquery.Selection) directory.Record {
	name, title := splitNameTitle(person.Find(nameSelector).First().Text())

	return directory.Record{
		Name:           name,
		Title:          title,
		Position:       extractPosition(person.Find(positionSelector).First()),
		ImageSourceURL: e.extractImageURL(person.Find(photoSelector).First()),
		Department:     extractLabeled(person.Find(deptSelector).First(), deptLabel),
		OfficeLocation: extractLabeled(person.Find(officeSelector).First(), officeLabel),
		Phone:          directory.FieldOf(person.Find(phoneSelector).First().Text()),
		Email:          extractEmail(person.Find(emailSelector).First()),
	}
}

// splitNameTitle splits the compound "Name, Title" heading on the first
// comma. No comma means no title.
func splitNameTitle(full string) (directory.Field, directory.Field) {
	full = strings.TrimSpace(full)
	if full == "" {
		return directory.Missing, directory.Missing
	}
	name, title, found := strings.Cut(full, ",")
	if !found {
		return directory.FieldOf(name), directory.Missing
	}
	return directory.FieldOf(name), directory.FieldOf(title)
}

// extractPosition takes the last non-empty text line of the block. The
// block's first line repeats the department, so a single-line block
// carries no position.
func extractPosition(sel *goquery.Selection) directory.Field {
	if sel.Length() == 0 {
		return directory.Missing
	}
	var lines []string
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			lines = append(lines, t)
		}
	})
	if len(lines) < 2 {
		return directory.Missing
	}
	return directory.FieldOf(lines[len(lines)-1])
}

func (e *Extractor) extractImageURL(sel *goquery.Selection) directory.Field {
	src, ok := sel.Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return directory.Missing
	}
	src = strings.TrimSpace(src)
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return directory.FieldOf(src)
	}
	if !strings.HasPrefix(src, "/") {
		src = "/" + src
	}
	return directory.FieldOf(e.origin + src)
}

func extractLabeled(sel *goquery.Selection, label string) directory.Field {
	if sel.Length() == 0 {
		return directory.Missing
	}
	text := strings.TrimSpace(strings.Replace(sel.Text(), label, "", 1))
	return directory.FieldOf(text)
}

func extractEmail(sel *goquery.Selection) directory.Field {
	href, ok := sel.Attr("href")
	if !ok {
		return directory.Missing
	}
	return directory.FieldOf(strings.TrimPrefix(strings.TrimSpace(href), "mailto:"))
}
