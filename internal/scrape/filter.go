package scrape

import (
	"strings"

	"hr-alerter/internal/config"
	"hr-alerter/internal/domain"
)

// ShouldKeepPosting applies the configured block lists. Postings are
// already HR-filtered by their board, so there is no allow list.
func ShouldKeepPosting(cfg config.Config, p domain.JobPosting) (keep bool, reason string) {
	if blocked(p.Location, cfg.Filters.LocationsBlock) {
		return false, "location"
	}
	if blocked(p.JobTitle, cfg.Filters.TitleBlock) {
		return false, "title"
	}
	return true, ""
}

func blocked(text string, block []string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return false
	}
	for _, b := range block {
		b = strings.ToLower(strings.TrimSpace(b))
		if b == "" {
			continue
		}
		if strings.Contains(text, b) {
			return true
		}
	}
	return false
}
