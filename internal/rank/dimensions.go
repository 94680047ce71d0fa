package rank

import (
	"strings"

	"hr-alerter/internal/domain"
)

const (
	MaxVelocity  = 40
	MaxSeniority = 20
	MaxICP       = 20
	MaxContent   = 10
	MaxRecency   = 10
	MaxScore     = MaxVelocity + MaxSeniority + MaxICP + MaxContent + MaxRecency
)

// Velocity rewards posting volume; the first satisfied tier wins.
func Velocity(w Window) int {
	c7, c30, c90 := w.Count(Days7), w.Count(Days30), w.Count(Days90)
	switch {
	case c7 >= 3:
		return 40
	case c30 >= 5:
		return 35
	case c30 >= 3:
		return 30
	case c30 >= 2:
		return 20
	case c90 >= 2:
		return 10
	default:
		return 0
	}
}

// Seniority rewards leadership hiring and a spread of levels over 30 days.
func Seniority(w Window) int {
	levels := seniorityLevels(w.Within(Days30))

	score := 0
	if levels[domain.SeniorityDirector] || levels[domain.SeniorityCLevel] {
		score += 15
	}
	if levels[domain.SenioritySenior] {
		score += 5
	}
	if len(levels) >= 2 {
		score += 5
	}
	return min(score, MaxSeniority)
}

func seniorityLevels(postings []domain.JobPosting) map[domain.Seniority]bool {
	levels := map[domain.Seniority]bool{}
	for _, p := range postings {
		lvl := strings.ToLower(strings.TrimSpace(p.SeniorityLevel))
		if lvl == "" {
			continue
		}
		levels[domain.Seniority(lvl)] = true
	}
	return levels
}

// ICP scores company size in Poland plus repeated target-title hiring.
func (k Keywords) ICP(w Window) int {
	k = k.withDefaults()
	score := 0
	if h := w.Headcount; h != nil {
		switch {
		case *h >= 200 && *h <= 5000:
			score += 15
		case *h >= 5001 && *h <= 10000:
			score += 10
		}
	}

	matches := 0
	for _, p := range w.Within(Days30) {
		if containsAny(strings.ToLower(p.JobTitle), k.TargetTitles) {
			matches++
		}
	}
	if matches >= 2 {
		score += 5
	}
	return min(score, MaxICP)
}

// Content awards points per 30-day posting description and caps the total.
func (k Keywords) Content(w Window) int {
	k = k.withDefaults()
	total := 0
	for _, p := range w.Within(Days30) {
		desc := strings.ToLower(p.JobDescription)
		if desc == "" {
			continue
		}
		if containsAny(desc, k.Wellbeing) {
			total += 5
		}
		if containsAny(desc, k.EAP) {
			total += 3
		}
		if containsAny(desc, k.Culture) {
			total += 2
		}
	}
	return min(total, MaxContent)
}

// Recency scores the age of the newest relevant posting.
func Recency(w Window) int {
	if w.LatestPostDate == "" {
		return 0
	}
	latest, ok := (domain.JobPosting{PostDate: w.LatestPostDate}).PostedOn()
	if !ok {
		return 0
	}
	days := domain.DaysBetween(latest, w.AsOf)
	switch {
	case days < 0:
		return 0
	case days <= 3:
		return 10
	case days <= 7:
		return 8
	case days <= 14:
		return 5
	case days <= 30:
		return 3
	default:
		return 0
	}
}

// ICP and Content with the default keyword lists.
func ICP(w Window) int     { return DefaultKeywords().ICP(w) }
func Content(w Window) int { return DefaultKeywords().Content(w) }
