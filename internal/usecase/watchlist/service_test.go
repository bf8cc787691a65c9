package watchlist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"556000-0000", "5560000000"},
		{"5560000000", "5560000000"},
		{"1234", "0000001234"},
		{"55 60 00 00 00", "5560000000"},
		{"", ""},
		{"123456789012", "123456789012"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseNormalizesEntries(t *testing.T) {
	data := []byte(`[
		{"orgnr": "556000-0000", "company_name": "Acme AB"},
		{"orgnr": 1234, "company_name": "Liten AB"}
	]`)
	svc, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Len() != 2 {
		t.Fatalf("expected 2 companies, got %d", svc.Len())
	}
	company, err := svc.Get("5560000000")
	if err != nil {
		t.Fatalf("expected Acme AB to be watched: %v", err)
	}
	if company.Name != "Acme AB" || !company.Active {
		t.Fatalf("unexpected company: %+v", company)
	}
	if !svc.Contains("0000001234") {
		t.Fatalf("expected numeric orgnr to be zero-padded")
	}
}

func TestParseSkipsTooLongOrgnr(t *testing.T) {
	data := []byte(`[
		{"orgnr": "55600000001", "company_name": "Fel AB"},
		{"orgnr": "5560000000", "company_name": "Acme AB"}
	]`)
	svc, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Len() != 1 {
		t.Fatalf("expected 1 company, got %d", svc.Len())
	}
	if svc.Skipped() != 1 {
		t.Fatalf("expected 1 skipped entry, got %d", svc.Skipped())
	}
	if svc.Contains("55600000001") {
		t.Fatalf("over-long orgnr must not be stored")
	}
}

func TestParseDropsEmptyEntries(t *testing.T) {
	data := []byte(`[
		{"orgnr": "", "company_name": "Namnlös AB"},
		{"orgnr": "5560000000", "company_name": ""},
		{"orgnr": "5560000001", "company_name": "Riktig AB"}
	]`)
	svc, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Len() != 1 {
		t.Fatalf("expected 1 company, got %d", svc.Len())
	}
	if svc.Skipped() != 0 {
		t.Fatalf("empty entries must not count as skipped, got %d", svc.Skipped())
	}
}

func TestParseLastEntryWins(t *testing.T) {
	data := []byte(`[
		{"orgnr": "5560000000", "company_name": "Gammalt Namn AB"},
		{"orgnr": "5560000001", "company_name": "Annan AB"},
		{"orgnr": "556000-0000", "company_name": "Nytt Namn AB"}
	]`)
	svc, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Len() != 2 {
		t.Fatalf("expected 2 companies, got %d", svc.Len())
	}
	company, err := svc.Get("5560000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if company.Name != "Nytt Namn AB" {
		t.Fatalf("expected last entry to win, got %q", company.Name)
	}
	all := svc.All()
	if all[0].Orgnr != "5560000000" {
		t.Fatalf("expected first listing position to be kept, got %q", all[0].Orgnr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), zerolog.Nop())
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.json")
	if err := os.WriteFile(path, []byte(`{"not": "a list"`), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	_, err := Load(path, zerolog.Nop())
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}

func TestGetNotWatched(t *testing.T) {
	svc, err := Parse([]byte(`[{"orgnr": "5560000000", "company_name": "Acme AB"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get("9999999999"); !errors.Is(err, ErrNotWatched) {
		t.Fatalf("expected ErrNotWatched, got %v", err)
	}
}
