// Package ledger keeps a per-account history of running balances. The
// history is a durable append-only CSV log loaded fully into memory as a
// map keyed by date string; appends may leave duplicate lines on disk,
// which Sync compacts behind a backup. It is the source of truth when an
// institution's export carries no absolute balance column.
package ledger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// DateKey is the layout of the map key and the on-disk date column.
const DateKey = "2006/01/02"

// Mode selects how the statement assembler reconciles a batch against the
// history.
type Mode string

const (
	// ModeSum reports the plain sum of the batch's signed amounts.
	ModeSum Mode = "sum"
	// ModeHistory carries prior entries forward and subtracts the batch's
	// new charges, for sources that report period deltas only.
	ModeHistory Mode = "history"
)

// Entry is one balance record: a date key and two independent running
// sub-totals.
type Entry struct {
	Date   string `csv:"date"`
	TotalA int64  `csv:"total_a"`
	TotalB int64  `csv:"total_b"`
}

// Time parses the entry's date key.
func (e Entry) Time(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateKey, e.Date, loc)
}

// History is the in-memory view of one account's balance log. Not safe for
// concurrent use; one conversion per account at a time.
type History struct {
	account string
	path    string
	entries map[string]Entry
}

// Open loads the history for the named account from dir. A missing log
// file yields an empty history. Duplicate keys in the file are resolved by
// load order: the record nearest the end of the file wins.
func Open(dir, account string) (*History, error) {
	h := &History{
		account: account,
		path:    filepath.Join(dir, account+".txt"),
		entries: make(map[string]Entry),
	}

	f, err := os.Open(h.path)
	if os.IsNotExist(err) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error opening history for %s: %w", account, err)
	}
	defer f.Close()

	var records []Entry
	if err := gocsv.UnmarshalWithoutHeaders(f, &records); err != nil {
		return nil, fmt.Errorf("error reading history for %s: %w", account, err)
	}
	for _, e := range records {
		h.entries[e.Date] = e
	}

	log.WithFields(logrus.Fields{
		"account": account,
		"entries": len(h.entries),
	}).Debug("Loaded balance history")
	return h, nil
}

// Account returns the account name the history belongs to.
func (h *History) Account() string {
	return h.account
}

// Path returns the location of the durable log file.
func (h *History) Path() string {
	return h.path
}

// Len returns the number of distinct dates held in memory.
func (h *History) Len() int {
	return len(h.entries)
}

// Get returns the entry for a date key.
func (h *History) Get(dateKey string) (Entry, bool) {
	e, ok := h.entries[dateKey]
	return e, ok
}

// Entries returns the in-memory entries sorted ascending by date.
func (h *History) Entries() []Entry {
	records := make([]Entry, 0, len(h.entries))
	for _, e := range h.entries {
		records = append(records, e)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })
	return records
}

// Record appends an entry to the durable log and upserts the in-memory
// map. The append happens even when the key is already present; Sync
// reconciles the resulting duplicate lines later.
func (h *History) Record(date time.Time, totalA, totalB int64) error {
	e := Entry{Date: date.Format(DateKey), TotalA: totalA, TotalB: totalB}
	h.entries[e.Date] = e

	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("error creating history directory: %w", err)
	}
	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("error opening history for %s: %w", h.account, err)
	}
	defer f.Close()

	if err := gocsv.MarshalWithoutHeaders(&[]Entry{e}, f); err != nil {
		return fmt.Errorf("error appending history for %s: %w", h.account, err)
	}
	return nil
}

// Sync compacts the durable log. When the in-memory entry count already
// matches the log's line count there is nothing to reconcile and the file
// is left alone. Otherwise the existing log is moved aside to a .bak
// sibling and rewritten from memory, sorted ascending by date, collapsing
// every duplicated key to its latest value.
func (h *History) Sync() error {
	lines, err := h.lineCount()
	if err != nil {
		return err
	}
	if lines >= 0 && lines == len(h.entries) {
		return nil
	}
	if lines < 0 && len(h.entries) == 0 {
		return nil
	}

	if lines >= 0 {
		if err := os.Rename(h.path, h.backupPath()); err != nil {
			return fmt.Errorf("error backing up history for %s: %w", h.account, err)
		}
	}

	records := make([]Entry, 0, len(h.entries))
	for _, e := range h.entries {
		records = append(records, e)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })

	f, err := os.Create(h.path)
	if err != nil {
		return fmt.Errorf("error rewriting history for %s: %w", h.account, err)
	}
	defer f.Close()

	if err := gocsv.MarshalWithoutHeaders(&records, f); err != nil {
		return fmt.Errorf("error rewriting history for %s: %w", h.account, err)
	}

	log.WithFields(logrus.Fields{
		"account": h.account,
		"entries": len(records),
	}).Debug("Compacted balance history")
	return nil
}

// SumBefore sums both running sub-totals over every entry dated strictly
// before t. This is the carried total consumed by carry-forward
// reconciliation.
func (h *History) SumBefore(t time.Time) (totalA, totalB int64) {
	for _, e := range h.entries {
		et, err := e.Time(t.Location())
		if err != nil {
			log.WithField("date", e.Date).Warn("Skipping unparseable history entry")
			continue
		}
		if et.Before(t) {
			totalA += e.TotalA
			totalB += e.TotalB
		}
	}
	return totalA, totalB
}

func (h *History) backupPath() string {
	return h.path[:len(h.path)-len(".txt")] + ".bak"
}

// lineCount returns the number of lines in the durable log, or -1 when the
// log does not exist yet.
func (h *History) lineCount() (int, error) {
	f, err := os.Open(h.path)
	if os.IsNotExist(err) {
		return -1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error opening history for %s: %w", h.account, err)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("error counting history lines for %s: %w", h.account, err)
	}
	return count, nil
}
