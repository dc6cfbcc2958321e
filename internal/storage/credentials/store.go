// Package credentials persists per-session exchange credentials and their
// configured investments in a YAML file.
package credentials

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/walletrack/internal/domain"
)

// ErrNotFound is returned when no credential exists for (session, label).
var ErrNotFound = errors.New("credential not found")

type record struct {
	Label           string `yaml:"label"`
	APIKey          string `yaml:"api_key"`
	APISecret       string `yaml:"api_secret"`
	TotalInvestment string `yaml:"total_investment"`
}

type fileFormat struct {
	Sessions map[string][]record `yaml:"sessions"`
}

// FileStore is a YAML-file-backed credential store keyed by session id.
// All mutations rewrite the file under a lock.
type FileStore struct {
	path string

	mu       sync.Mutex
	sessions map[string][]record
}

// NewFileStore opens the store at path, loading existing content if any.
func NewFileStore(path string) (*FileStore, error) {
	store := &FileStore{path: path, sessions: make(map[string][]record)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, errors.Wrap(err, "read credentials file")
	}

	var content fileFormat
	if err := yaml.Unmarshal(raw, &content); err != nil {
		return nil, errors.Wrap(err, "decode credentials file")
	}
	if content.Sessions != nil {
		store.sessions = content.Sessions
	}
	return store, nil
}

// Save stores a credential and its investment under (session, label),
// replacing any existing entry with the same label.
func (s *FileStore) Save(session string, cred domain.Credential, investment decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := record{
		Label:           cred.Label,
		APIKey:          cred.APIKey,
		APISecret:       cred.APISecret,
		TotalInvestment: investment.String(),
	}

	records := s.sessions[session]
	replaced := false
	for i := range records {
		if records[i].Label == cred.Label {
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}
	s.sessions[session] = records

	return s.flush()
}

// Get returns the credential and investment stored under (session, label).
func (s *FileStore) Get(session, label string) (domain.Credential, domain.InvestmentConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.sessions[session] {
		if rec.Label == label {
			return toDomain(rec)
		}
	}
	return domain.Credential{}, domain.InvestmentConfig{}, ErrNotFound
}

// List returns all credentials and investments of a session in insertion order.
func (s *FileStore) List(session string) ([]domain.Credential, []domain.InvestmentConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.sessions[session]
	creds := make([]domain.Credential, 0, len(records))
	investments := make([]domain.InvestmentConfig, 0, len(records))
	for _, rec := range records {
		cred, inv, err := toDomain(rec)
		if err != nil {
			return nil, nil, err
		}
		creds = append(creds, cred)
		investments = append(investments, inv)
	}
	return creds, investments, nil
}

// Clear removes every credential of a session.
func (s *FileStore) Clear(session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, session)
	return s.flush()
}

func (s *FileStore) flush() error {
	raw, err := yaml.Marshal(fileFormat{Sessions: s.sessions})
	if err != nil {
		return errors.Wrap(err, "encode credentials file")
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return errors.Wrap(err, "create credentials dir")
		}
	}
	// keys and secrets live here, keep the file private
	return errors.Wrap(os.WriteFile(s.path, raw, 0o600), "write credentials file")
}

func toDomain(rec record) (domain.Credential, domain.InvestmentConfig, error) {
	investment, err := decimal.NewFromString(rec.TotalInvestment)
	if err != nil {
		return domain.Credential{}, domain.InvestmentConfig{},
			errors.Wrapf(err, "parse investment for %q", rec.Label)
	}
	cred := domain.Credential{Label: rec.Label, APIKey: rec.APIKey, APISecret: rec.APISecret}
	inv := domain.InvestmentConfig{Label: rec.Label, TotalInvestment: investment}
	return cred, inv, nil
}
