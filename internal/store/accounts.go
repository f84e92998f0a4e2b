// Package store persists the account registry: user-chosen account names
// bound to an institution key, branch and account identifiers, and an
// optional balance reconciliation mode override.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"csvofx/internal/filtererror"
	"csvofx/internal/ledger"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Account binds a user-facing account name to an institution filter and
// the identifiers emitted into its statements.
type Account struct {
	Institution string      `yaml:"institution"`
	BranchID    string      `yaml:"branch"`
	AccountID   string      `yaml:"account"`
	BalanceMode ledger.Mode `yaml:"balance_mode,omitempty"`
	AutoGen     bool        `yaml:"autogen,omitempty"`
}

// AccountStore loads and saves the registry as a YAML file keyed by
// account name.
type AccountStore struct {
	path     string
	accounts map[string]Account
}

// OpenAccounts loads the registry from path. A missing file yields an
// empty registry.
func OpenAccounts(path string) (*AccountStore, error) {
	s := &AccountStore{
		path:     path,
		accounts: make(map[string]Account),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.WithField("file", path).Debug("Account registry not found, starting empty")
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading account registry: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.accounts); err != nil {
		return nil, fmt.Errorf("error parsing account registry: %w", err)
	}
	if s.accounts == nil {
		s.accounts = make(map[string]Account)
	}
	return s, nil
}

// Get returns the account registered under key.
func (s *AccountStore) Get(key string) (Account, bool) {
	a, ok := s.accounts[key]
	return a, ok
}

// Keys returns every registered account name, sorted.
func (s *AccountStore) Keys() []string {
	keys := make([]string, 0, len(s.accounts))
	for key := range s.accounts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered accounts.
func (s *AccountStore) Len() int {
	return len(s.accounts)
}

// Modify adds or updates an account binding and saves the registry. When
// replace names an existing entry, that entry is removed first, so a
// rename does not leave the old binding behind.
func (s *AccountStore) Modify(name string, account Account, replace string) error {
	if replace != "" {
		delete(s.accounts, replace)
	}
	s.accounts[name] = account
	return s.Save()
}

// Remove deletes an account binding and saves the registry.
func (s *AccountStore) Remove(key string) (Account, error) {
	account, ok := s.accounts[key]
	if !ok {
		return Account{}, &filtererror.UnknownAccountError{Key: key}
	}
	delete(s.accounts, key)
	return account, s.Save()
}

// Save writes the registry back to disk.
func (s *AccountStore) Save() error {
	data, err := yaml.Marshal(s.accounts)
	if err != nil {
		return fmt.Errorf("error marshaling account registry: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating registry directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("error writing account registry: %w", err)
	}

	log.WithFields(logrus.Fields{
		"file":     s.path,
		"accounts": len(s.accounts),
	}).Debug("Saved account registry")
	return nil
}
