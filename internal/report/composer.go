package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hr-alerter/internal/domain"
	"hr-alerter/internal/rank"
	"hr-alerter/internal/store"
)

const (
	LeadWindowDays    = 7
	PostingWindowDays = 30
	MaxPostings       = 5

	DefaultSubjectSuffix = "Polish Job Market Alerter"
)

// Store is the read side of the weekly digest.
type Store interface {
	LatestLeadSignals(ctx context.Context, since string) ([]domain.Signal, error)
	RecentPostings(ctx context.Context, companyID int64, since, until string, limit int) ([]domain.JobPosting, error)
	GetCompany(ctx context.Context, id int64) (domain.Company, error)
	Stats(ctx context.Context, since string) (store.PostingStats, error)
}

type PostingView struct {
	Title     string
	URL       string
	Location  string
	PostDate  string
	DaysAgo   int
	Wellbeing bool
}

type Lead struct {
	Signal    domain.Signal
	Company   string
	Headcount *int
	WhyNow    string
	Postings  []PostingView
}

type Stats struct {
	store.PostingStats
	HotCount  int
	WarmCount int
}

// Digest is a composed weekly report, ready to persist and send.
type Digest struct {
	AsOf      time.Time
	WeekRange string
	Hot       []Lead
	Warm      []Lead
	Stats     Stats
	Subject   string
	HTML      string
}

type Composer struct {
	Store         Store
	Keywords      rank.Keywords
	SubjectSuffix string
}

// Compose builds the digest as of asOf from the latest hot and warm
// signal of each non-customer company signalled in the past week.
func (c *Composer) Compose(ctx context.Context, asOf time.Time) (Digest, error) {
	asOf = domain.Day(asOf)
	d := Digest{AsOf: asOf, WeekRange: WeekRange(asOf)}

	signals, err := c.Store.LatestLeadSignals(ctx, rank.Since(asOf, LeadWindowDays))
	if err != nil {
		return d, fmt.Errorf("load lead signals: %w", err)
	}

	for _, s := range signals {
		lead, err := c.lead(ctx, s, asOf)
		if err != nil {
			return d, err
		}
		switch s.LeadTemperature {
		case domain.Hot:
			d.Hot = append(d.Hot, lead)
		case domain.Warm:
			d.Warm = append(d.Warm, lead)
		}
	}

	ps, err := c.Store.Stats(ctx, rank.Since(asOf, LeadWindowDays))
	if err != nil {
		return d, fmt.Errorf("load posting stats: %w", err)
	}
	d.Stats = Stats{PostingStats: ps, HotCount: len(d.Hot), WarmCount: len(d.Warm)}

	suffix := c.SubjectSuffix
	if suffix == "" {
		suffix = DefaultSubjectSuffix
	}
	d.Subject = fmt.Sprintf("%d Companies Scaling HR Teams This Week | %s", len(d.Hot)+len(d.Warm), suffix)

	var buf bytes.Buffer
	if err := weeklyTemplate.Execute(&buf, d); err != nil {
		return d, fmt.Errorf("render report: %w", err)
	}
	d.HTML = buf.String()

	log.Info().Int("hot", len(d.Hot)).Int("warm", len(d.Warm)).Msg("weekly report composed")
	return d, nil
}

func (c *Composer) lead(ctx context.Context, s domain.Signal, asOf time.Time) (Lead, error) {
	l := Lead{Signal: s, Company: s.CompanyName, WhyNow: WhyNow(s)}

	co, err := c.Store.GetCompany(ctx, s.CompanyID)
	switch {
	case err == nil:
		l.Company = co.NameNormalized
		l.Headcount = co.HeadcountPoland
	case !errors.Is(err, store.ErrNotFound):
		return l, fmt.Errorf("load company %d: %w", s.CompanyID, err)
	}

	postings, err := c.Store.RecentPostings(ctx, s.CompanyID, rank.Since(asOf, PostingWindowDays), rank.Until(asOf), MaxPostings)
	if err != nil {
		return l, fmt.Errorf("load postings for company %d: %w", s.CompanyID, err)
	}
	for _, p := range postings {
		v := PostingView{
			Title:     p.JobTitle,
			URL:       p.JobURL,
			Location:  p.Location,
			PostDate:  p.PostDate,
			Wellbeing: c.Keywords.MentionsWellbeing(p.JobDescription),
		}
		if t, ok := p.PostedOn(); ok {
			v.DaysAgo = domain.DaysBetween(t, asOf)
		}
		l.Postings = append(l.Postings, v)
	}
	return l, nil
}

// Report turns the digest into the row stored in reports.
func (d Digest) Report(recipient string) domain.Report {
	return domain.Report{
		ReportDate:     d.AsOf.Format(domain.DateLayout),
		ReportType:     domain.ReportTypeWeeklyDigest,
		RecipientEmail: recipient,
		HotCount:       len(d.Hot),
		WarmCount:      len(d.Warm),
		EmailSubject:   d.Subject,
		EmailBody:      d.HTML,
	}
}

// WeekRange labels the Monday-to-Sunday week containing day.
func WeekRange(day time.Time) string {
	day = domain.Day(day)
	monday := day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
	sunday := monday.AddDate(0, 0, 6)
	return fmt.Sprintf("Week of %s - %s", monday.Format("January 02"), sunday.Format("January 02, 2006"))
}

// WhyNow is the one-line sales hook shown under each company.
func WhyNow(s domain.Signal) string {
	var parts []string
	if s.HasDirectorRole {
		parts = append(parts, "Hiring HR leadership roles signals strategic investment in people operations")
	}
	if s.HasWellbeingKeywords {
		parts = append(parts, "Job descriptions mention wellbeing/mental health programs")
	}
	if s.MultiCityExpansion {
		parts = append(parts, "Expanding HR presence across multiple cities")
	}
	if len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("Active HR hiring with %d postings in 30 days indicates team expansion", s.PostingCount30d))
	}

	out := parts[0]
	for _, p := range parts[1:] {
		out += ". " + p
	}
	return out + "."
}
