package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/encoding"
	"github.com/MrJamesThe3rd/teamspend/internal/expense"
	"github.com/MrJamesThe3rd/teamspend/internal/money"
)

var ErrUnknownFormat = fmt.Errorf("%w: no supported CSV layout found; expected a header with date, description and amount columns", apperr.ErrValidation)

// delimiters are tried in order until one yields a recognised header.
var delimiters = []rune{',', ';', '\t'}

// Row is one expense read from a file, not yet written.
type Row struct {
	Line        int
	Date        time.Time
	Description string
	Amount      int64
	Category    expense.Category // empty when the file has no category
	Status      expense.Status   // empty when the file has no status
}

// Issue is a row that was not imported.
type Issue struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type Parsed struct {
	Profile   string
	Charset   encoding.Charset
	Delimiter rune
	Rows      []Row
	Issues    []Issue
}

// record is a CSV record with the line it started on.
type record struct {
	line   int
	fields []string
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

// Parse decodes r to UTF-8, detects the delimiter and column profile, and
// reads every data row.
func Parse(r io.Reader) (*Parsed, error) {
	utf8r, cs, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	for _, delim := range delimiters {
		records, err := readRecords(string(data), delim)
		if err != nil {
			continue
		}

		p, cols, header := detectProfile(records)
		if p == nil {
			continue
		}

		rows, issues := parseRows(p, cols, records[header+1:])

		return &Parsed{
			Profile:   p.Name,
			Charset:   cs,
			Delimiter: delim,
			Rows:      rows,
			Issues:    issues,
		}, nil
	}

	return nil, ErrUnknownFormat
}

func readRecords(data string, delim rune) ([]record, error) {
	reader := csv.NewReader(strings.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []record

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, fields: fields})
	}
}

// detectProfile scans records for a header that matches a known profile and
// returns the profile, its column map and the header's index.
func detectProfile(records []record) (*Profile, colIndex, int) {
	for i, rec := range records {
		cols := make(colIndex)

		for j, raw := range rec.fields {
			name := strings.ToLower(strings.TrimSpace(raw))
			if name == "" {
				continue
			}

			if _, dup := cols[name]; !dup {
				cols[name] = j
			}
		}

		for k := range profiles {
			if matchesProfile(&profiles[k], cols) {
				return &profiles[k], cols, i
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

func parseRows(p *Profile, cols colIndex, records []record) ([]Row, []Issue) {
	var (
		rows   []Row
		issues []Issue
	)

	for _, rec := range records {
		if blank(rec.fields) {
			continue
		}

		row, reason, ok := parseRow(p, cols, rec)
		if ok {
			rows = append(rows, row)
			continue
		}

		if reason != "" {
			issues = append(issues, Issue{Line: rec.line, Reason: reason})
		}
	}

	return rows, issues
}

// parseRow reads one record. A false ok with an empty reason means the
// record is skipped silently: footers, balances and credits in bank exports.
func parseRow(p *Profile, cols colIndex, rec record) (Row, string, bool) {
	row := Row{Line: rec.line}

	rawDate := cell(rec.fields, cols, p.DateCol)

	date, ok := parseDate(rawDate, p.DateLayouts)
	if !ok {
		if p.bank() {
			return row, "", false
		}

		return row, fmt.Sprintf("invalid date %q", rawDate), false
	}

	row.Date = date

	amount, reason, ok := readAmount(p, cols, rec.fields)
	if !ok {
		return row, reason, false
	}

	row.Amount = amount

	row.Description = cell(rec.fields, cols, p.DescCol)
	if row.Description == "" {
		return row, "missing description", false
	}

	if raw := strings.ToLower(cell(rec.fields, cols, p.CategoryCol)); raw != "" {
		row.Category = expense.Category(raw)
		if !row.Category.Valid() {
			return row, fmt.Sprintf("unknown category %q", raw), false
		}
	}

	if raw := strings.ToLower(cell(rec.fields, cols, p.StatusCol)); raw != "" {
		row.Status = expense.Status(raw)
		if !row.Status.Valid() {
			return row, fmt.Sprintf("unknown status %q", raw), false
		}
	}

	return row, "", true
}

func readAmount(p *Profile, cols colIndex, fields []string) (int64, string, bool) {
	switch p.AmountMode {
	case amountPlain:
		raw := cell(fields, cols, p.AmountCol)

		cents, err := parseAmount(raw, p.Numbers)
		if err != nil {
			return 0, fmt.Sprintf("invalid amount %q", raw), false
		}

		if cents <= 0 {
			return 0, "amount must be greater than 0", false
		}

		return cents, "", true
	case amountSigned:
		cents, err := parseAmount(cell(fields, cols, p.AmountCol), p.Numbers)
		if err != nil || cents >= 0 {
			return 0, "", false
		}

		return -cents, "", true
	case amountSplit:
		cents, err := parseAmount(cell(fields, cols, p.DebitCol), p.Numbers)
		if err != nil || cents == 0 {
			return 0, "", false
		}

		return max(cents, -cents), "", true
	}

	return 0, "", false
}

// parseAmount reads a major-unit amount in the given style into cents.
func parseAmount(s string, style numberStyle) (int64, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '€', '$', '£', ' ', '\u00a0':
			return -1
		}

		return r
	}, s)

	switch style {
	case decimalComma:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	case decimalPoint:
		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return money.FromDecimal(d)
}

func parseDate(s string, layouts []string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// cell returns the trimmed value of column name, or "" when absent.
func cell(fields []string, cols colIndex, name string) string {
	if name == "" {
		return ""
	}

	idx, ok := cols[name]
	if !ok || idx >= len(fields) {
		return ""
	}

	return strings.TrimSpace(fields[idx])
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}

	return true
}
