// Package classify maps free-text POIT announcements to typed business
// events using an ordered keyword table.
package classify

import (
	"strings"

	"bevakning/internal/domain"
)

// Rule binds one keyword group to an event type.
type Rule struct {
	Type     domain.EventType
	Keywords []string
}

// Rules is the classification decision table. It is evaluated top to
// bottom and the first matching group wins, so more specific categories
// (konkurs) must stay above generic ones (styrelse).
var Rules = []Rule{
	{domain.EventBankruptcy, []string{"konkurs", "konkursbeslut"}},
	{domain.EventLiquidation, []string{"likvidation", "likvidator"}},
	{domain.EventMerger, []string{"fusion", "sammanslagning"}},
	{domain.EventBoardChange, []string{"styrelse", "styrelseledamot", "styrelsens"}},
	{domain.EventCeoChange, []string{"verkställande direktör", "vd "}},
	{domain.EventArticlesAmendment, []string{"bolagsordning"}},
	{domain.EventShareIssue, []string{"nyemission", "aktiekapital"}},
	{domain.EventUnknownCreditorNotice, []string{"okända borgenärer", "kallelse på"}},
	{domain.EventAnnualReport, []string{"årsredovisning", "årsbokslut"}},
}

// Classify maps an announcement to exactly one event type based on its
// category and summary. It is a pure function: identical text always
// yields the same type, and text matching no rule yields EventOther.
func Classify(a domain.Announcement) domain.EventType {
	return ClassifyText(a.Category + " " + a.Summary)
}

// ClassifyText classifies a raw text against the rule table.
func ClassifyText(text string) domain.EventType {
	folded := strings.ToLower(text)
	for _, rule := range Rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(folded, keyword) {
				return rule.Type
			}
		}
	}
	return domain.EventOther
}
