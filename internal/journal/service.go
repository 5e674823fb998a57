package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/cleared-dev/ledger/internal/accounts"
)

// Service applies journal scripts to a chart of accounts.
type Service struct {
	index *accounts.Index
	log   *zap.Logger
}

// NewService creates a journal Service. A nil logger discards everything.
func NewService(index *accounts.Index, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{index: index, log: log}
}

// Apply validates legs against the index and posts each entry through
// accounts.Index.Post. Nothing is posted unless every leg is valid. It
// returns the number of entries posted.
func (s *Service) Apply(legs []Leg) (int, error) {
	if verrs := ValidateLegs(legs, s.index); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, ve := range verrs {
			errs[i] = ve
		}
		return 0, fmt.Errorf("validation failed: %w", multierr.Combine(errs...))
	}

	entries := groupEntries(legs)
	for i, e := range entries {
		postings, err := s.postings(e)
		if err != nil {
			return i, err
		}
		if err := s.index.Post(postings...); err != nil {
			return i, fmt.Errorf("posting entry %s: %w", e.id, err)
		}
		s.log.Debug("entry posted", zap.String("entry_id", e.id), zap.Int("legs", len(e.legs)))
	}
	return len(entries), nil
}

func (s *Service) postings(e entry) ([]accounts.Posting, error) {
	postings := make([]accounts.Posting, 0, len(e.legs))
	for _, leg := range e.legs {
		def, err := s.index.Lookup(leg.Account)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.id, err)
		}
		if leg.Debit.IsZero() {
			postings = append(postings, accounts.CreditOf(def, leg.Credit))
		} else {
			postings = append(postings, accounts.DebitOf(def, leg.Debit))
		}
	}
	return postings, nil
}

// ApplyFile reads the journal script at path and applies it. A missing file
// is an error.
func (s *Service) ApplyFile(path string) (int, error) {
	legs, err := ReadFile(path)
	if err != nil {
		return 0, err
	}
	n, err := s.Apply(legs)
	if err != nil {
		return n, fmt.Errorf("applying %s: %w", path, err)
	}
	s.log.Info("journal applied", zap.String("path", path), zap.Int("entries", n))
	return n, nil
}

// ReadFile reads all legs of the journal script at path.
func ReadFile(path string) ([]Leg, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("journal %s does not exist: %w", path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	legs, err := ReadLegs(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return legs, nil
}

// Apply validates legs and posts them onto index.
func Apply(index *accounts.Index, legs []Leg) error {
	_, err := NewService(index, nil).Apply(legs)
	return err
}
