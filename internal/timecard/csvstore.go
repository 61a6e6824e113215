package timecard

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/f130r/workspace01/internal/logging"
)

var csvHeader = []string{"date", "start", "end", "hours"}

// CSVStore keeps records in a CSV file with a date,start,end,hours header.
// The hours column is derived; it is written for readers of the file and
// ignored on load.
type CSVStore struct {
	File string
	Log  *zap.Logger
}

func NewCSVStore(file string, log *zap.Logger) *CSVStore {
	return &CSVStore{File: file, Log: logging.OrNop(log)}
}

func (s *CSVStore) Path() string { return s.File }

// Load reads the file, creating an empty one if it does not exist. Missing
// columns read as empty and malformed times are blanked.
func (s *CSVStore) Load(ctx context.Context) ([]Record, error) {
	f, err := os.Open(s.File)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.Save(ctx, nil); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[h] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var recs []Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		recs = append(recs, Record{
			Date:  field(row, "date"),
			Start: field(row, "start"),
			End:   field(row, "end"),
		}.Normalize())
	}
	return recs, nil
}

func (s *CSVStore) Save(_ context.Context, recs []Record) (err error) {
	if err := os.MkdirAll(filepath.Dir(s.File), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp := s.File + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, rec := range recs {
		if err := w.Write([]string{rec.Date, rec.Start, rec.End, rec.Hours()}); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	if err := os.Rename(tmp, s.File); err != nil {
		return fmt.Errorf("replace csv: %w", err)
	}
	s.Log.Debug("timecard saved", zap.String("file", s.File), zap.Int("records", len(recs)))
	return nil
}
