package poit

import (
	"testing"
)

func TestParseSearchOutputSuccess(t *testing.T) {
	data := []byte(`{
		"success": true,
		"antal_traffar": 2,
		"kungorelser": [
			{
				"kungorelse_id": "K123456/24",
				"uppgiftslamnare": "Bolagsverket",
				"typ": "Konkurs",
				"namn": "Konkursbeslut meddelat",
				"publicerad": "2024-03-01",
				"url": "https://poit.bolagsverket.se/poit/K123456"
			},
			{
				"kungorelse_id": "K123457/24",
				"uppgiftslamnare": "Bolagsverket",
				"typ": "Registrering",
				"namn": "Adressändring",
				"publicerad": "2024-03-02"
			}
		]
	}`)
	result, err := parseSearchOutput("5560000000", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.OK {
		t.Fatalf("expected a successful result")
	}
	if result.Hits != 2 || len(result.Announcements) != 2 {
		t.Fatalf("expected 2 announcements, got hits=%d len=%d", result.Hits, len(result.Announcements))
	}
	first := result.Announcements[0]
	if first.ID != "K123456/24" || first.Category != "Konkurs" || first.Summary != "Konkursbeslut meddelat" {
		t.Fatalf("unexpected announcement: %+v", first)
	}
	if first.URL != "https://poit.bolagsverket.se/poit/K123456" {
		t.Fatalf("unexpected url: %q", first.URL)
	}
	if result.Announcements[1].URL != "" {
		t.Fatalf("missing url must stay empty")
	}
}

func TestParseSearchOutputReportedFailure(t *testing.T) {
	data := []byte(`{"success": false, "antal_traffar": 0, "kungorelser": [], "error": "cloudflare challenge"}`)
	result, err := parseSearchOutput("5560000000", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OK {
		t.Fatalf("expected a failed result")
	}
	if result.Err != "cloudflare challenge" {
		t.Fatalf("expected the source error to be kept, got %q", result.Err)
	}
	if len(result.Announcements) != 0 {
		t.Fatalf("failed result must carry no announcements")
	}
}

func TestParseSearchOutputBadJSON(t *testing.T) {
	if _, err := parseSearchOutput("5560000000", []byte("not json")); err == nil {
		t.Fatalf("expected a decode error")
	}
}
