package nofluff

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hr-alerter/internal/domain"
	"hr-alerter/internal/scrape/util"
)

const APIURL = "https://nofluffjobs.com/api/posting"

// HRCategories are NoFluffJobs categories kept regardless of title.
var HRCategories = map[string]bool{"hr": true}

// HRTitleKeywords catch HR roles filed under other categories.
var HRTitleKeywords = []string{
	"hr", "human resources", "kadry", "people", "wellbeing",
	"culture", "rekrutacja", "talent", "payroll", "employer branding",
	"employee experience", "onboarding",
}

type Config struct {
	APIURL string
}

// Scraper reads the public postings endpoint, which returns every
// advert in one response, and keeps the HR ones.
type Scraper struct {
	cfg     Config
	hc      *http.Client
	headers *util.HeaderRotator
	limiter *util.HostLimiter
}

func New(cfg Config, limiter *util.HostLimiter) *Scraper {
	if cfg.APIURL == "" {
		cfg.APIURL = APIURL
	}
	return &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 60 * time.Second},
		headers: util.NewHeaderRotator(),
		limiter: limiter,
	}
}

func (s *Scraper) Name() string { return domain.SourceNoFluff }

type apiResponse struct {
	Postings []apiPosting `json:"postings"`
}

type apiPosting struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Location struct {
		Places []struct {
			City string `json:"city"`
		} `json:"places"`
		FullyRemote bool `json:"fullyRemote"`
	} `json:"location"`
	FullyRemote bool     `json:"fullyRemote"`
	Posted      int64    `json:"posted"`
	Seniority   []string `json:"seniority"`
}

// Scrape ignores maxPages; the endpoint is not paged. keywords extend
// HRTitleKeywords.
func (s *Scraper) Scrape(ctx context.Context, keywords []string, _ int) ([]domain.JobPosting, error) {
	if err := s.limiter.WaitURL(ctx, s.cfg.APIURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.APIURL, nil)
	if err != nil {
		return nil, err
	}
	s.headers.Apply(req, "application/json")

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nofluff get postings: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("nofluff postings status %d", res.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("nofluff decode postings: %w", err)
	}

	all := mergeKeywords(HRTitleKeywords, keywords)

	var out []domain.JobPosting
	for _, p := range body.Postings {
		if !isHR(p, all) {
			continue
		}
		if jp, ok := toPosting(p); ok {
			out = append(out, jp)
		}
	}

	log.Info().
		Str("source", s.Name()).
		Int("total", len(body.Postings)).
		Int("hr", len(out)).
		Msg("nofluff postings fetched")
	return out, nil
}

func mergeKeywords(base, extra []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, k := range append(append([]string{}, base...), extra...) {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func isHR(p apiPosting, keywords []string) bool {
	if HRCategories[strings.ToLower(p.Category)] {
		return true
	}
	title := strings.ToLower(p.Title)
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

func toPosting(p apiPosting) (domain.JobPosting, bool) {
	title := strings.TrimSpace(p.Title)
	company := strings.TrimSpace(p.Name)
	if title == "" || company == "" || p.URL == "" {
		return domain.JobPosting{}, false
	}

	var cities []string
	for _, pl := range p.Location.Places {
		cities = append(cities, pl.City)
	}

	jp := domain.JobPosting{
		Source:         domain.SourceNoFluff,
		JobURL:         "https://nofluffjobs.com/pl/job/" + strings.TrimPrefix(p.URL, "/"),
		JobTitle:       title,
		CompanyNameRaw: company,
		Location:       util.JoinCities(cities, p.FullyRemote || p.Location.FullyRemote),
		IsRelevant:     true,
	}
	if p.Posted > 0 {
		jp.PostDate = util.FormatDate(time.UnixMilli(p.Posted).UTC())
	}

	var raw string
	if len(p.Seniority) > 0 {
		raw = p.Seniority[0]
	}
	jp.SeniorityLevel = util.DetectSeniority(raw)
	if jp.SeniorityLevel == "" {
		jp.SeniorityLevel = util.DetectSeniority(title)
	}
	return jp, true
}
