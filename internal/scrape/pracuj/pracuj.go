package pracuj

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"hr-alerter/internal/domain"
	"hr-alerter/internal/scrape/util"
)

const BaseURL = "https://www.pracuj.pl/praca"

// PageFetcher returns the HTML of one results page.
type PageFetcher func(ctx context.Context, pageURL string) (string, error)

type Config struct {
	BaseURL string
	// Browser renders pages in headless Chrome; the board sits behind a
	// bot wall that plain HTTP often cannot pass.
	Browser        bool
	BrowserTimeout time.Duration
}

type Scraper struct {
	cfg     Config
	hc      *http.Client
	headers *util.HeaderRotator
	limiter *util.HostLimiter
	fetch   PageFetcher
	now     func() time.Time
}

func New(cfg Config, limiter *util.HostLimiter) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}
	if cfg.BrowserTimeout <= 0 {
		cfg.BrowserTimeout = 45 * time.Second
	}
	s := &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 30 * time.Second},
		headers: util.NewHeaderRotator(),
		limiter: limiter,
		now:     time.Now,
	}
	s.fetch = s.fetchHTTP
	if cfg.Browser {
		s.fetch = s.fetchBrowser
	}
	return s
}

// WithFetcher swaps the page source, e.g. for fixtures.
func (s *Scraper) WithFetcher(f PageFetcher) *Scraper {
	s.fetch = f
	return s
}

func (s *Scraper) Name() string { return domain.SourcePracuj }

func (s *Scraper) PageURL(keyword string, page int) string {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("pn", strconv.Itoa(page))
	return s.cfg.BaseURL + "?" + q.Encode()
}

// Scrape walks keywords x pages. A failing page is logged and skipped.
func (s *Scraper) Scrape(ctx context.Context, keywords []string, maxPages int) ([]domain.JobPosting, error) {
	if maxPages < 1 {
		maxPages = 1
	}

	var out []domain.JobPosting
	for _, kw := range keywords {
		for page := 1; page <= maxPages; page++ {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			u := s.PageURL(kw, page)
			if err := s.limiter.WaitURL(ctx, u); err != nil {
				return out, err
			}

			html, err := s.fetch(ctx, u)
			if err != nil {
				log.Warn().Err(err).Str("keyword", kw).Int("page", page).Msg("pracuj page failed")
				continue
			}

			jobs := ParsePage(html, s.now())
			log.Info().Str("keyword", kw).Int("page", page).Int("jobs", len(jobs)).Msg("pracuj page scraped")
			out = append(out, jobs...)
		}
	}
	return out, nil
}

func (s *Scraper) fetchHTTP(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	s.headers.Apply(req, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	res, err := s.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return "", fmt.Errorf("pracuj status %d", res.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Scraper) fetchBrowser(ctx context.Context, pageURL string) (string, error) {
	return Render(ctx, pageURL, s.headers.UserAgent(), s.cfg.BrowserTimeout)
}
