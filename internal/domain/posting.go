package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the calendar-date format used for post_date, signal_date and report_date.
const DateLayout = "2006-01-02"

const (
	SourceNoFluff = "nofluffjobs"
	SourcePracuj  = "pracuj.pl"
)

type Seniority string

const (
	SeniorityDirector Seniority = "director"
	SeniorityCLevel   Seniority = "c-level"
	SenioritySenior   Seniority = "senior"
	SeniorityMid      Seniority = "mid"
	SeniorityJunior   Seniority = "junior"
)

// JobPosting is one scraped advertisement. JobURL is the dedup anchor.
type JobPosting struct {
	ID             int64  `json:"id,omitempty"`
	Source         string `json:"source" validate:"required"`
	JobURL         string `json:"job_url" validate:"required,url"`
	JobTitle       string `json:"job_title" validate:"required"`
	CompanyNameRaw string `json:"company_name_raw" validate:"required"`
	CompanyID      *int64 `json:"company_id,omitempty"`
	Location       string `json:"location,omitempty"`
	PostDate       string `json:"post_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	JobDescription string `json:"job_description,omitempty"`
	SeniorityLevel string `json:"seniority_level,omitempty" validate:"omitempty,oneof=director senior mid junior"`
	EmploymentType string `json:"employment_type,omitempty"`
	IsRelevant     bool   `json:"is_relevant"`
}

// validate caches struct metadata across calls and is safe for concurrent use.
var validate = validator.New()

// Validate checks the ingestion contract.
func (p *JobPosting) Validate() error {
	return validate.Struct(p)
}

// PostedOn parses PostDate. ok is false when the date is missing or malformed.
func (p JobPosting) PostedOn() (t time.Time, ok bool) {
	if p.PostDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, p.PostDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Day truncates t to a UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}
