// Package ledger persists the per-identity transaction ledger as a CSV file
// and merges newly extracted rows into it without duplicating what is
// already there.
package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/expenselens/walletledger/internal/models"
)

// csvHeader is the persisted column order.
var csvHeader = []string{"Date", "Description", "Amount", "Category", "ParsedDate"}

// Store owns the data directory holding one ledger file per identity.
// A ledger file is created with a header row on first access. Concurrent
// writers for the same identity are not coordinated here; the hosting layer
// serializes uploads per identity.
type Store struct {
	dir    string
	logger *log.Logger
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %q: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Path resolves an identity to its ledger file location, creating the file
// with a header row when absent.
func (s *Store) Path(identity string) (string, error) {
	path := filepath.Join(s.dir, sanitizeIdentity(identity)+".csv")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.writeFile(path, nil); err != nil {
			return "", err
		}
	}
	return path, nil
}

// Read loads an identity's ledger. Absent or malformed storage yields an
// empty ledger, never an error: financial history should survive a corrupt
// row, and a missing file just means a new identity.
func (s *Store) Read(identity string) []models.LedgerEntry {
	path := filepath.Join(s.dir, sanitizeIdentity(identity)+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		s.logger.Warn("ledger unreadable, treating as empty", "identity", identity, "error", err)
		return nil
	}

	var entries []models.LedgerEntry
	for i, rec := range records {
		if i == 0 && isHeaderRow(rec) {
			continue
		}
		if len(rec) < 3 {
			continue
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			continue
		}
		e := models.LedgerEntry{
			Date:        rec[0],
			Description: rec[1],
			Amount:      amount,
			Category:    models.CategoryOthers,
		}
		if len(rec) > 3 && rec[3] != "" {
			e.Category = models.Category(rec[3])
		}
		if len(rec) > 4 {
			e.ParsedDate = rec[4]
		}
		entries = append(entries, e)
	}
	return entries
}

// Write atomically replaces an identity's ledger file. The new content is
// written to a temp file in the same directory and renamed over the old
// one, so a failed write never leaves a partial ledger behind.
func (s *Store) Write(identity string, entries []models.LedgerEntry) error {
	path := filepath.Join(s.dir, sanitizeIdentity(identity)+".csv")
	return s.writeFile(path, entries)
}

func (s *Store) writeFile(path string, entries []models.LedgerEntry) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".ledger-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp ledger file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write ledger header: %w", err)
	}
	for _, e := range entries {
		row := []string{
			e.Date,
			e.Description,
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
			string(e.Category),
			e.ParsedDate,
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write ledger row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp ledger file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace ledger file %q: %w", path, err)
	}
	return nil
}

func isHeaderRow(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "date")
}

// sanitizeIdentity keeps ledger filenames flat: path separators and parent
// references in an identity string must not escape the data directory.
func sanitizeIdentity(identity string) string {
	identity = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		default:
			return r
		}
	}, identity)
	identity = strings.ReplaceAll(identity, "..", "_")
	if identity == "" {
		identity = "default"
	}
	return identity
}
