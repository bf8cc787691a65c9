package classify

import (
	"testing"

	"bevakning/internal/domain"
)

func TestClassifyByCategory(t *testing.T) {
	cases := []struct {
		category string
		summary  string
		want     domain.EventType
	}{
		{"Konkurs", "Konkursbeslut meddelat", domain.EventBankruptcy},
		{"Likvidation", "Likvidator utsedd", domain.EventLiquidation},
		{"Fusion", "Fusion genom absorption", domain.EventMerger},
		{"Registrering", "Sammanslagning av bolagen", domain.EventMerger},
		{"Ändring", "Ny styrelseledamot registrerad", domain.EventBoardChange},
		{"Ändring", "Byte av verkställande direktör", domain.EventCeoChange},
		{"Ändring", "Ny bolagsordning registrerad", domain.EventArticlesAmendment},
		{"Registrering", "Nyemission beslutad", domain.EventShareIssue},
		{"Registrering", "Ökning av aktiekapitalet", domain.EventShareIssue},
		{"Kallelse", "Kallelse på okända borgenärer", domain.EventUnknownCreditorNotice},
		{"Registrering", "Årsredovisning inkommen", domain.EventAnnualReport},
		{"Registrering", "Adressändring", domain.EventOther},
	}
	for _, tc := range cases {
		got := Classify(domain.Announcement{Category: tc.category, Summary: tc.summary})
		if got != tc.want {
			t.Fatalf("Classify(%q, %q) = %s, want %s", tc.category, tc.summary, got, tc.want)
		}
	}
}

func TestClassifyRuleOrderWins(t *testing.T) {
	// both a board keyword and a bankruptcy keyword: the higher-priority
	// bankruptcy rule must win
	got := ClassifyText("Styrelsen beslutade om konkurs")
	if got != domain.EventBankruptcy {
		t.Fatalf("expected konkurs, got %s", got)
	}
}

func TestClassifyEmptyTextIsOther(t *testing.T) {
	if got := Classify(domain.Announcement{}); got != domain.EventOther {
		t.Fatalf("expected annan, got %s", got)
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	if got := ClassifyText("KONKURSBESLUT"); got != domain.EventBankruptcy {
		t.Fatalf("expected konkurs, got %s", got)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	a := domain.Announcement{Category: "Konkurs", Summary: "Konkursbeslut meddelat"}
	first := Classify(a)
	for i := 0; i < 10; i++ {
		if got := Classify(a); got != first {
			t.Fatalf("classification changed between calls: %s vs %s", first, got)
		}
	}
}
