package util

import (
	"strings"

	"hr-alerter/internal/domain"
)

// Checked in order; first hit wins.
var seniorityPatterns = []struct {
	level    domain.Seniority
	keywords []string
}{
	{domain.SeniorityDirector, []string{"director", "dyrektor", "c-level", "ceo", "cfo", "cto", "cpo", "chro", "vp ", "vice president"}},
	{domain.SenioritySenior, []string{"senior", "starszy", "sr ", "sr."}},
	{domain.SeniorityJunior, []string{"junior", "młodszy", "praktykant", "intern", "stażysta", "trainee"}},
	{domain.SeniorityMid, []string{"manager", "kierownik", "lead", "team lead", "head of"}},
}

// DetectSeniority guesses a seniority level from a title or a board's
// seniority label. It returns "" when no keyword matches.
func DetectSeniority(title string) string {
	if title == "" {
		return ""
	}
	lower := strings.ToLower(title)
	for _, p := range seniorityPatterns {
		for _, kw := range p.keywords {
			if strings.Contains(lower, kw) {
				return string(p.level)
			}
		}
	}
	return ""
}
