// Package importer reads transaction files into the domain model.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/Darshu236/smartexpense-server/internal/model"
)

// Importer errors.
var (
	ErrMissingHeader = errors.New("csv header missing required column")
	ErrEmptyFile     = errors.New("csv file has no header row")
)

// RowError records one skipped row and why it was skipped.
type RowError struct {
	Err  error
	Line int
}

// Result is the outcome of a bulk import. Malformed rows are skipped,
// never fatal; a file of entirely bad rows yields an empty Transactions
// slice and a full Skipped list.
type Result struct {
	Transactions []model.Transaction
	Skipped      []RowError
}

// CSVImporter parses CSV exports with a header row. Recognized columns
// are date, title (or name/description), amount, category and
// payment_mode; extra columns are ignored.
type CSVImporter struct {
	progress io.Writer
}

// NewCSVImporter creates an importer. A nil progress writer disables the
// progress bar.
func NewCSVImporter(progress io.Writer) *CSVImporter {
	return &CSVImporter{progress: progress}
}

// acceptedDateFormats are tried in order when parsing the date column.
var acceptedDateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"02-01-2006",
}

// Parse reads the full file, skipping malformed rows.
func (i *CSVImporter) Parse(ctx context.Context, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if i.progress != nil {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(i.progress),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("Importing transactions..."),
		)
	}

	result := &Result{}
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, Err: err})
			continue
		}

		txn, err := columns.parseRow(record)
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, Err: err})
			continue
		}
		result.Transactions = append(result.Transactions, txn)

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	slog.Info("Parsed CSV file",
		"transactions", len(result.Transactions),
		"skipped", len(result.Skipped))

	return result, nil
}

// columnMap holds the index of each recognized column, -1 when absent.
type columnMap struct {
	date        int
	title       int
	amount      int
	category    int
	paymentMode int
}

func mapColumns(header []string) (*columnMap, error) {
	columns := &columnMap{date: -1, title: -1, amount: -1, category: -1, paymentMode: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			columns.date = i
		case "title", "name", "description":
			columns.title = i
		case "amount":
			columns.amount = i
		case "category":
			columns.category = i
		case "payment_mode", "payment mode", "mode", "payment":
			columns.paymentMode = i
		}
	}

	switch {
	case columns.date < 0:
		return nil, fmt.Errorf("%w: date", ErrMissingHeader)
	case columns.title < 0:
		return nil, fmt.Errorf("%w: title", ErrMissingHeader)
	case columns.amount < 0:
		return nil, fmt.Errorf("%w: amount", ErrMissingHeader)
	}
	return columns, nil
}

func (c *columnMap) parseRow(record []string) (model.Transaction, error) {
	field := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	title := field(c.title)
	if title == "" {
		return model.Transaction{}, errors.New("missing title")
	}

	date, err := parseDate(field(c.date))
	if err != nil {
		return model.Transaction{}, err
	}

	amount, err := strconv.ParseFloat(field(c.amount), 64)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid amount %q", field(c.amount))
	}
	if amount <= 0 {
		return model.Transaction{}, fmt.Errorf("amount must be positive, got %v", amount)
	}

	txn := model.Transaction{
		Date:        date,
		Title:       title,
		Amount:      amount,
		Category:    field(c.category),
		PaymentMode: strings.ToLower(field(c.paymentMode)),
	}
	txn.Hash = txn.GenerateHash()
	return txn, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing date")
	}
	for _, format := range acceptedDateFormats {
		if date, err := time.Parse(format, s); err == nil {
			return date.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
