package scrape

import (
	"github.com/rs/zerolog/log"

	"hr-alerter/internal/config"
	"hr-alerter/internal/domain"
	"hr-alerter/internal/scrape/util"
)

// Prepare cleans scraped postings into ingestion shape and drops the
// ones that fail validation or the block lists. URLs are canonicalized
// and duplicates within the batch collapse onto the first.
func Prepare(cfg config.Config, in []domain.JobPosting) (out []domain.JobPosting, skipped int) {
	seen := make(map[string]bool, len(in))

	for _, p := range in {
		p.JobURL = util.CanonicalURL(p.JobURL)
		p.JobTitle = util.CleanText(p.JobTitle)
		p.CompanyNameRaw = util.CleanText(p.CompanyNameRaw)
		p.Location = util.NormalizeLocation(p.Location)
		p.JobDescription = util.CleanText(p.JobDescription)
		p.EmploymentType = util.NormalizeEmploymentType(p.EmploymentType)
		p.IsRelevant = true

		if err := p.Validate(); err != nil {
			log.Debug().Err(err).Str("source", p.Source).Str("url", p.JobURL).Msg("posting rejected")
			skipped++
			continue
		}
		if keep, why := ShouldKeepPosting(cfg, p); !keep {
			log.Debug().Str("source", p.Source).Str("reason", why).
				Str("title", p.JobTitle).Str("location", p.Location).Msg("posting skipped")
			skipped++
			continue
		}
		if seen[p.JobURL] {
			continue
		}
		seen[p.JobURL] = true
		out = append(out, p)
	}
	return out, skipped
}
