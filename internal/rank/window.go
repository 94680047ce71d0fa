package rank

import (
	"time"

	"hr-alerter/internal/domain"
)

const (
	Days7  = 7
	Days30 = 30
	Days90 = 90
)

// Window is everything the dimension scorers look at for one company on
// one scoring date. Postings holds relevant postings from the last 90 days;
// LatestPostDate is the newest relevant post_date of any age up to AsOf.
type Window struct {
	AsOf           time.Time
	Headcount      *int
	Postings       []domain.JobPosting
	LatestPostDate string
}

// Within returns the postings dated from days before AsOf up to AsOf.
// Postings dated after AsOf are ignored.
func (w Window) Within(days int) []domain.JobPosting {
	var out []domain.JobPosting
	for _, p := range w.Postings {
		if !p.IsRelevant {
			continue
		}
		d, ok := p.PostedOn()
		if !ok {
			continue
		}
		if dd := domain.DaysBetween(d, w.AsOf); dd >= 0 && dd <= days {
			out = append(out, p)
		}
	}
	return out
}

func (w Window) Count(days int) int {
	return len(w.Within(days))
}

// Since renders the first calendar date inside a days-long window ending at asOf.
func Since(asOf time.Time, days int) string {
	return domain.Day(asOf).AddDate(0, 0, -days).Format(domain.DateLayout)
}

// Until renders asOf as the last calendar date of a window.
func Until(asOf time.Time) string {
	return domain.Day(asOf).Format(domain.DateLayout)
}
