package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/amishk599/jobdelta/internal/model"
)

// Header is the column layout shared by the cumulative and delta stores.
var Header = []string{"job_title", "company", "location", "description", "url", "id"}

// CSVStore is an append-only CSV file of job records.
type CSVStore struct {
	path string
}

// NewCSVStore returns a store backed by the CSV file at path. The file is
// created on the first Append.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the backing file path.
func (s *CSVStore) Path() string {
	return s.path
}

// LoadIDs returns the set of record ids in the store. A missing file is an
// empty store. A store without an id column, or with rows that do not fit
// the header, is reported as model.ErrCorruptStore.
func (s *CSVStore) LoadIDs() (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	err := s.scan(func(row []string, col map[string]int) error {
		ids[row[col["id"]]] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ReadAll returns every record in file order.
func (s *CSVStore) ReadAll() ([]model.Job, error) {
	var jobs []model.Job

	err := s.scan(func(row []string, col map[string]int) error {
		field := func(name string) string {
			if i, ok := col[name]; ok {
				return row[i]
			}
			return ""
		}
		jobs = append(jobs, model.Job{
			Title:       field("job_title"),
			Company:     field("company"),
			Location:    field("location"),
			Description: field("description"),
			URL:         field("url"),
			ID:          field("id"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// scan opens the store, validates its header and calls fn for each data row
// with a column-name → index map.
func (s *CSVStore) scan(fn func(row []string, col map[string]int) error) error {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening store %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %s: reading header: %v", model.ErrCorruptStore, s.path, err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	if _, ok := col["id"]; !ok {
		return fmt.Errorf("%w: %s: missing id column", model.ErrCorruptStore, s.path)
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", model.ErrCorruptStore, s.path, err)
		}
		if err := fn(row, col); err != nil {
			return err
		}
	}
}

// Append writes jobs to the end of the store in order, writing the header
// first only when the file did not exist. Existing content is never rewritten.
// An empty batch touches nothing.
func (s *CSVStore) Append(jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	_, err := os.Stat(s.path)
	writeHeader := errors.Is(err, os.ErrNotExist)
	if err != nil && !writeHeader {
		return fmt.Errorf("checking store %s: %w", s.path, err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening store %s: %w", s.path, err)
	}

	w := csv.NewWriter(f)
	// Rows end in CRLF so files stay compatible with spreadsheet-oriented CSV tools.
	w.UseCRLF = true

	if writeHeader {
		if err := w.Write(Header); err != nil {
			f.Close()
			return fmt.Errorf("writing header to %s: %w", s.path, err)
		}
	}
	for _, j := range jobs {
		row := []string{j.Title, j.Company, j.Location, j.Description, j.URL, j.ID}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("writing row to %s: %w", s.path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flushing %s: %w", s.path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing store %s: %w", s.path, err)
	}
	return nil
}
