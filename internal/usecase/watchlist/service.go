package watchlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"bevakning/internal/domain"
)

// ErrNotWatched is returned when a company is not on the watch list.
var ErrNotWatched = errors.New("company is not on the watch list")

// LoadError reports that the company listing could not be read or parsed.
// Per-entry problems never produce a LoadError; bad entries are dropped.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load company list %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Service holds the set of watched companies. It is immutable after Load
// and safe for concurrent readers.
type Service struct {
	byOrgnr map[string]domain.Company
	order   []string
	skipped int
}

type listEntry struct {
	Orgnr       orgnrValue `json:"orgnr"`
	CompanyName string     `json:"company_name"`
}

// orgnrValue accepts both string and numeric orgnr fields, which both occur
// in exported company listings.
type orgnrValue string

func (v *orgnrValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = orgnrValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = orgnrValue(n.String())
	return nil
}

// Normalize strips separators from an organisationsnummer and left-pads the
// result with zeros to ten characters. Longer inputs are returned as-is.
func Normalize(orgnr string) string {
	cleaned := strings.ReplaceAll(orgnr, "-", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" || len(cleaned) >= 10 {
		return cleaned
	}
	return strings.Repeat("0", 10-len(cleaned)) + cleaned
}

// Load reads the company listing from a JSON file of
// {orgnr, company_name} entries. Entries with an identifier longer than ten
// digits are counted and dropped; entries with an empty name or identifier
// are dropped silently. On duplicate identifiers the last entry wins while
// the listing position of the first one is kept.
func Load(path string, logger zerolog.Logger) (*Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	svc, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	logger.Info().
		Int("companies", svc.Len()).
		Int("skipped", svc.Skipped()).
		Str("path", path).
		Msg("company list loaded")
	return svc, nil
}

// Parse builds a watch list from raw listing JSON.
func Parse(data []byte) (*Service, error) {
	var entries []listEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	svc := &Service{byOrgnr: make(map[string]domain.Company, len(entries))}
	for _, entry := range entries {
		orgnr := Normalize(string(entry.Orgnr))
		if len(orgnr) > 10 {
			svc.skipped++
			continue
		}
		if orgnr == "" || entry.CompanyName == "" {
			continue
		}
		if _, ok := svc.byOrgnr[orgnr]; !ok {
			svc.order = append(svc.order, orgnr)
		}
		svc.byOrgnr[orgnr] = domain.Company{Orgnr: orgnr, Name: entry.CompanyName, Active: true}
	}
	return svc, nil
}

// New builds a watch list from already normalized companies, in the given
// order. Used when the listing does not come from a file.
func New(companies []domain.Company) *Service {
	svc := &Service{byOrgnr: make(map[string]domain.Company, len(companies))}
	for _, company := range companies {
		if _, ok := svc.byOrgnr[company.Orgnr]; !ok {
			svc.order = append(svc.order, company.Orgnr)
		}
		svc.byOrgnr[company.Orgnr] = company
	}
	return svc
}

// All returns the watched companies in listing order.
func (s *Service) All() []domain.Company {
	companies := make([]domain.Company, 0, len(s.order))
	for _, orgnr := range s.order {
		companies = append(companies, s.byOrgnr[orgnr])
	}
	return companies
}

// Contains reports whether the orgnr is watched. The input is normalized
// before the lookup.
func (s *Service) Contains(orgnr string) bool {
	_, ok := s.byOrgnr[Normalize(orgnr)]
	return ok
}

// Get returns the watched company for the orgnr or ErrNotWatched.
func (s *Service) Get(orgnr string) (domain.Company, error) {
	company, ok := s.byOrgnr[Normalize(orgnr)]
	if !ok {
		return domain.Company{}, ErrNotWatched
	}
	return company, nil
}

// Len returns the number of watched companies.
func (s *Service) Len() int { return len(s.byOrgnr) }

// Skipped returns how many listing entries were dropped for having an
// identifier longer than ten digits.
func (s *Service) Skipped() int { return s.skipped }
