// Package exporter orchestrates the pipeline: it probes raw row matrices
// against every registered filter, accumulates recognized blocks into
// per-account batches, and converts a batch into a statement document.
package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"csvofx/internal/assembler"
	"csvofx/internal/config"
	"csvofx/internal/filter"
	"csvofx/internal/filtererror"
	"csvofx/internal/ledger"
	"csvofx/internal/models"
	"csvofx/internal/ofxgen"
	"csvofx/internal/store"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	log = logger
	ledger.SetLogger(logger)
	store.SetLogger(logger)
	filter.SetLogger(logger)
	assembler.SetLogger(logger)
}

// batch is the pending input of one account: raw rows grouped by batch
// key, waiting for conversion.
type batch struct {
	account store.Account
	filter  *filter.Filter
	groups  map[string][][]string
}

// Exporter accumulates analyzed input and converts it per account.
type Exporter struct {
	cfg      *config.Config
	accounts *store.AccountStore
	active   map[string]*batch

	// Now is the clock used for statement stamps; tests override it.
	Now func() time.Time
}

// New builds an exporter and reconciles every registered account's
// balance history log before any conversion starts.
func New(cfg *config.Config, accounts *store.AccountStore) (*Exporter, error) {
	e := &Exporter{
		cfg:      cfg,
		accounts: accounts,
		active:   make(map[string]*batch),
		Now:      time.Now,
	}

	for _, key := range accounts.Keys() {
		hist, err := ledger.Open(cfg.History.Directory, key)
		if err != nil {
			return nil, fmt.Errorf("error opening balance history for %s: %w", key, err)
		}
		if err := hist.Sync(); err != nil {
			return nil, fmt.Errorf("error syncing balance history for %s: %w", key, err)
		}
	}
	return e, nil
}

// Reset drops every pending batch.
func (e *Exporter) Reset() {
	e.active = make(map[string]*batch)
}

// ActiveKeys returns the accounts holding pending batches, sorted.
func (e *Exporter) ActiveKeys() []string {
	keys := make([]string, 0, len(e.active))
	for key := range e.active {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Analyze probes rows against every registered filter and appends the
// recognized blocks to the batch of each account bound to a matching
// institution. Recognition misses are silent. The matched account keys
// are returned.
func (e *Exporter) Analyze(rows [][]string, defaultKey string) []string {
	recognized := make(map[string][][][]string)
	for _, f := range filter.All() {
		blocks, err := f.Analyze(rows)
		if err != nil || blocks == nil {
			continue
		}
		recognized[f.Key] = blocks
	}
	return e.collect(recognized, defaultKey)
}

// AnalyzeFile reads one export file and probes it with each filter's own
// separator. base overrides the batch key derived from the file name.
func (e *Exporter) AnalyzeFile(name, base string) ([]string, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("error reading input file: %w", err)
	}

	key := base
	if key == "" {
		key = strings.SplitN(filepath.Base(name), ".", 2)[0]
	}

	recognized := make(map[string][][][]string)
	bySep := make(map[rune][][]string)
	for _, f := range filter.All() {
		rows, ok := bySep[f.Separator]
		if !ok {
			rows = readRows(data, f.Separator)
			bySep[f.Separator] = rows
		}
		if rows == nil {
			continue
		}
		blocks, err := f.Analyze(rows)
		if err != nil || blocks == nil {
			continue
		}
		recognized[f.Key] = blocks
	}
	return e.collect(recognized, key), nil
}

// collect files recognized blocks under each matching account's batch.
func (e *Exporter) collect(recognized map[string][][][]string, defaultKey string) []string {
	var matched []string
	for _, key := range e.accounts.Keys() {
		account, _ := e.accounts.Get(key)
		blocks, ok := recognized[account.Institution]
		if !ok {
			continue
		}
		f, ok := filter.Lookup(account.Institution)
		if !ok {
			continue
		}
		matched = append(matched, key)

		b := e.active[key]
		if b == nil {
			b = &batch{
				account: account,
				filter:  f,
				groups:  make(map[string][][]string),
			}
			e.active[key] = b
		}
		for _, block := range blocks {
			b.groups[defaultKey] = append(b.groups[defaultKey], block...)
		}

		log.WithFields(logrus.Fields{
			"account": key,
			"group":   defaultKey,
			"blocks":  len(blocks),
		}).Debug("Recognized input for account")
	}
	return matched
}

// Convert parses, classifies and assembles the pending batch of one
// account into a statement document. The batch stays pending until Reset.
func (e *Exporter) Convert(key string) (*models.Document, error) {
	b, ok := e.active[key]
	if !ok {
		return nil, &filtererror.NoDataError{Account: key}
	}

	groups := make(map[string][]*models.Record, len(b.groups))
	for gkey, rows := range b.groups {
		records, skipped, err := b.filter.ParseRows(rows)
		if err != nil {
			return nil, fmt.Errorf("error parsing rows for %s: %w", key, err)
		}
		if skipped > 0 {
			log.WithFields(logrus.Fields{
				"account": key,
				"group":   gkey,
				"skipped": skipped,
			}).Info("Skipped unparsable rows")
		}
		groups[gkey] = records
	}

	hist, err := ledger.Open(e.cfg.History.Directory, key)
	if err != nil {
		return nil, fmt.Errorf("error opening balance history for %s: %w", key, err)
	}

	asm := assembler.New(b.filter, b.account, hist, e.Now())
	return asm.Build(groups)
}

// ConvertAndSave converts one account's batch and writes the OFX file
// into the configured output directory, returning the written path.
func (e *Exporter) ConvertAndSave(key string) (string, error) {
	doc, err := e.Convert(key)
	if err != nil {
		return "", err
	}

	gen := ofxgen.New(e.cfg.Location())
	path, err := gen.Save(doc, e.cfg.Output.Directory, key, e.Now())
	if err != nil {
		return "", err
	}
	log.WithFields(logrus.Fields{
		"account": key,
		"file":    path,
	}).Info("Wrote statement file")
	return path, nil
}

// readRows decodes CSV bytes into a row matrix, tolerating ragged rows
// and stray quotes. nil is returned when the data cannot be read at all.
func readRows(data []byte, sep rune) [][]string {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil
		}
		rows = append(rows, row)
	}
	return rows
}
