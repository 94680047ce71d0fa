package rank

import "strings"

// Keywords are the case-insensitive substrings the ICP and content
// dimensions look for. The zero value falls back to DefaultKeywords.
type Keywords struct {
	TargetTitles []string `yaml:"target_titles"`
	Wellbeing    []string `yaml:"wellbeing"`
	EAP          []string `yaml:"eap"`
	Culture      []string `yaml:"culture"`
}

func DefaultKeywords() Keywords {
	return Keywords{
		TargetTitles: []string{
			"HR Director",
			"People & Culture",
			"Wellbeing",
			"Employee Experience",
			"CHRO",
			"CPO",
			"HR Business Partner",
			"Culture and Engagement",
		},
		Wellbeing: []string{"wellbeing", "dobrostan", "mental health", "zdrowie psychiczne"},
		EAP:       []string{"eap", "employee assistance", "wsparcie pracowników"},
		Culture:   []string{"kultura organizacyjna", "employer branding", "employee experience"},
	}
}

// withDefaults fills every empty list from DefaultKeywords.
func (k Keywords) withDefaults() Keywords {
	d := DefaultKeywords()
	if len(k.TargetTitles) == 0 {
		k.TargetTitles = d.TargetTitles
	}
	if len(k.Wellbeing) == 0 {
		k.Wellbeing = d.Wellbeing
	}
	if len(k.EAP) == 0 {
		k.EAP = d.EAP
	}
	if len(k.Culture) == 0 {
		k.Culture = d.Culture
	}
	return k
}

// containsAny reports whether lowered text contains any needle.
func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// MentionsWellbeing reports whether text carries a wellbeing keyword.
func (k Keywords) MentionsWellbeing(text string) bool {
	return containsAny(strings.ToLower(text), k.withDefaults().Wellbeing)
}
