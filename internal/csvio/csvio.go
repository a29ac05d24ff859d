// Package csvio serializes record batches to the delimited-text
// interchange format shared between the crawl, filter, and load stages.
// The "N/A" sentinel exists only at this boundary; in memory a missing
// value is directory.Missing.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/facultydir/harvester/internal/directory"
)

// Sentinel is the literal written for a missing field.
const Sentinel = "N/A"

// Header is the fixed interchange column order.
var Header = []string{
	"Name",
	"Title",
	"Position",
	"Image URL",
	"Department",
	"Office Location",
	"Phone",
	"Email",
}

// Write serializes records header-first to w.
func Write(w io.Writer, records []directory.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range records {
		row := []string{
			encode(rec.Name),
			encode(rec.Title),
			encode(rec.Position),
			encode(rec.ImageSourceURL),
			encode(rec.Department),
			encode(rec.OfficeLocation),
			encode(rec.Phone),
			encode(rec.Email),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Read parses a header-first batch from r. Column count is validated
// against the header; the header names themselves are not enforced so
// older batch files remain readable.
func Read(r io.Reader) ([]directory.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("batch file is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records []directory.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(records), err)
		}
		records = append(records, directory.Record{
			Name:           decode(row[0]),
			Title:          decode(row[1]),
			Position:       decode(row[2]),
			ImageSourceURL: decode(row[3]),
			Department:     decode(row[4]),
			OfficeLocation: decode(row[5]),
			Phone:          decode(row[6]),
			Email:          decode(row[7]),
		})
	}
	return records, nil
}

// WriteFile serializes records to path, replacing any existing file.
func WriteFile(path string, records []directory.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, records); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// ReadFile parses the batch stored at path.
func ReadFile(path string) ([]directory.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

func encode(f directory.Field) string {
	if f.IsMissing() {
		return Sentinel
	}
	return f.Value()
}

func decode(s string) directory.Field {
	if strings.EqualFold(strings.TrimSpace(s), Sentinel) {
		return directory.Missing
	}
	return directory.FieldOf(s)
}
