package rank

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hr-alerter/internal/domain"
	"hr-alerter/internal/store"
)

// Scorer produces a composite lead score for one company as of a date.
type Scorer interface {
	Score(ctx context.Context, companyID int64, asOf time.Time) (Result, error)
}

// Store is the read side the engine needs.
type Store interface {
	GetCompany(ctx context.Context, id int64) (domain.Company, error)
	ListRelevantPostings(ctx context.Context, companyID int64, since, until string) ([]domain.JobPosting, error)
	LatestRelevantPostDate(ctx context.Context, companyID int64, until string) (string, error)
}

// Result is the scoring output for one company.
type Result struct {
	CompanyID            int64              `json:"company_id"`
	FinalScore           int                `json:"final_score"`
	LeadTemperature      domain.Temperature `json:"lead_temperature"`
	Velocity             int                `json:"velocity"`
	Seniority            int                `json:"seniority"`
	ICP                  int                `json:"icp"`
	Content              int                `json:"content"`
	Recency              int                `json:"recency"`
	PostingCount7d       int                `json:"posting_count_7d"`
	PostingCount30d      int                `json:"posting_count_30d"`
	HasDirectorRole      bool               `json:"has_director_role"`
	HasWellbeingKeywords bool               `json:"has_wellbeing_keywords"`
	MultiCityExpansion   bool               `json:"multi_city_expansion"`

	// Carried into the persisted signal only.
	PostingCount90d int `json:"-"`
}

// Classify maps a final score onto a lead temperature.
func Classify(score int) domain.Temperature {
	switch {
	case score >= 75:
		return domain.Hot
	case score >= 50:
		return domain.Warm
	default:
		return domain.Cold
	}
}

type Engine struct {
	Store    Store
	Keywords Keywords
}

func NewEngine(s Store, k Keywords) *Engine {
	return &Engine{Store: s, Keywords: k.withDefaults()}
}

// Window loads the postings and headcount a company is scored on.
// An unknown company yields an empty window, not an error.
func (e *Engine) Window(ctx context.Context, companyID int64, asOf time.Time) (Window, error) {
	w := Window{AsOf: domain.Day(asOf)}

	c, err := e.Store.GetCompany(ctx, companyID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// scored on postings alone
	case err != nil:
		return w, fmt.Errorf("load company %d: %w", companyID, err)
	default:
		w.Headcount = c.HeadcountPoland
	}

	w.Postings, err = e.Store.ListRelevantPostings(ctx, companyID, Since(asOf, Days90), Until(asOf))
	if err != nil {
		return w, fmt.Errorf("load postings company=%d: %w", companyID, err)
	}
	w.LatestPostDate, err = e.Store.LatestRelevantPostDate(ctx, companyID, Until(asOf))
	if err != nil {
		return w, fmt.Errorf("load latest post date company=%d: %w", companyID, err)
	}
	return w, nil
}

// Score reads the company's posting window and combines the five
// dimensions. It never writes.
func (e *Engine) Score(ctx context.Context, companyID int64, asOf time.Time) (Result, error) {
	w, err := e.Window(ctx, companyID, asOf)
	if err != nil {
		return Result{CompanyID: companyID, LeadTemperature: domain.Cold}, err
	}
	return e.Compose(companyID, w), nil
}

// Compose scores an already loaded window.
func (e *Engine) Compose(companyID int64, w Window) Result {
	k := e.Keywords.withDefaults()

	r := Result{
		CompanyID: companyID,
		Velocity:  Velocity(w),
		Seniority: Seniority(w),
		ICP:       k.ICP(w),
		Content:   k.Content(w),
		Recency:   Recency(w),
	}
	r.FinalScore = r.Velocity + r.Seniority + r.ICP + r.Content + r.Recency
	r.LeadTemperature = Classify(r.FinalScore)

	last30 := w.Within(Days30)
	r.PostingCount7d = w.Count(Days7)
	r.PostingCount30d = len(last30)
	r.PostingCount90d = w.Count(Days90)

	levels := seniorityLevels(last30)
	r.HasDirectorRole = levels[domain.SeniorityDirector] || levels[domain.SeniorityCLevel]

	cities := map[string]bool{}
	for _, p := range last30 {
		if containsAny(strings.ToLower(p.JobDescription), k.Wellbeing) {
			r.HasWellbeingKeywords = true
		}
		if loc := strings.TrimSpace(p.Location); loc != "" {
			cities[loc] = true
		}
	}
	r.MultiCityExpansion = len(cities) >= 2
	return r
}
