package usage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"atelier/internal/models"
)

// CSVLedger appends usage records to a CSV file with the Header columns.
// Appends are serialised and synced to disk before returning.
type CSVLedger struct {
	path string
	mu   sync.Mutex
}

// NewCSVLedger returns a ledger backed by the file at path. The file is
// created on first append.
func NewCSVLedger(path string) *CSVLedger {
	return &CSVLedger{path: path}
}

// Path returns the ledger file location.
func (l *CSVLedger) Path() string { return l.path }

// Append writes exactly one row. The header is written when the file is new
// or empty; existing rows are never rewritten. A last row left without its
// newline by an interrupted write is terminated first.
func (l *CSVLedger) Append(ctx context.Context, rec models.UsageRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := Validate(rec); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open usage ledger: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat usage ledger: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("write usage header: %w", err)
		}
	} else {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, info.Size()-1); err != nil {
			return fmt.Errorf("read usage ledger tail: %w", err)
		}
		if last[0] != '\n' {
			if _, err := f.Write([]byte{'\n'}); err != nil {
				return fmt.Errorf("terminate usage ledger row: %w", err)
			}
		}
	}
	if err := w.Write(encodeRecord(rec)); err != nil {
		return fmt.Errorf("write usage record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush usage ledger: %w", err)
	}
	return f.Sync()
}

// All reads every record in file order. A missing file is an empty ledger.
// Damaged rows are skipped and logged so one torn write cannot lock every
// user out of the quota.
func (l *CSVLedger) All(ctx context.Context) ([]models.UsageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open usage ledger: %w", err)
	}
	defer f.Close()

	records, skipped, err := readCSV(f, false)
	if skipped > 0 {
		slog.Warn("skipped damaged usage ledger rows", "path", l.path, "rows", skipped)
	}
	return records, err
}

// ReadCSV parses records written by WriteCSV or CSVLedger. The header row is
// optional. Errors name the offending line.
func ReadCSV(r io.Reader) ([]models.UsageRecord, error) {
	records, _, err := readCSV(r, true)
	return records, err
}

// readCSV fails on the first bad row when strict, otherwise it skips and
// counts rows that do not decode.
func readCSV(r io.Reader, strict bool) ([]models.UsageRecord, int, error) {
	cr := csv.NewReader(r)
	if strict {
		cr.FieldsPerRecord = len(Header)
	} else {
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true
	}

	var records []models.UsageRecord
	skipped := 0
	first := true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !strict && errors.As(err, &parseErr) {
				skipped++
				continue
			}
			return nil, skipped, fmt.Errorf("read usage ledger: %w", err)
		}
		if first {
			first = false
			if slices.Equal(row, Header) {
				continue
			}
		}
		if !strict && len(row) != len(Header) {
			skipped++
			continue
		}
		rec, err := decodeRecord(row)
		if err != nil {
			if !strict {
				skipped++
				continue
			}
			line, _ := cr.FieldPos(0)
			return nil, skipped, fmt.Errorf("usage ledger line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

// WriteCSV writes the header followed by one row per record.
func WriteCSV(w io.Writer, records []models.UsageRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(encodeRecord(rec)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func encodeRecord(rec models.UsageRecord) []string {
	return []string{
		rec.Timestamp.UTC().Format(time.RFC3339),
		escapeCell(rec.User),
		string(rec.Language),
		string(rec.Activity),
		strconv.Itoa(rec.Attempts),
	}
}

func decodeRecord(row []string) (models.UsageRecord, error) {
	ts, err := time.Parse(time.RFC3339, row[0])
	if err != nil {
		return models.UsageRecord{}, fmt.Errorf("timestamp: %w", err)
	}
	attempts, err := strconv.Atoi(row[4])
	if err != nil {
		return models.UsageRecord{}, fmt.Errorf("attempts: %w", err)
	}
	return models.UsageRecord{
		Timestamp: ts,
		User:      unescapeCell(row[1]),
		Language:  models.Language(row[2]),
		Activity:  models.Activity(row[3]),
		Attempts:  attempts,
	}, nil
}

// escapeCell keeps spreadsheet applications from evaluating a cell as a
// formula. unescapeCell reverses it, so stored keys still match quota keys.
func escapeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '\'':
		return "'" + s
	}
	return s
}

func unescapeCell(s string) string {
	return strings.TrimPrefix(s, "'")
}
