package domain

import (
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPosting() JobPosting {
	return JobPosting{
		Source:         SourceNoFluff,
		JobURL:         "https://nofluffjobs.com/pl/job/hr-business-partner-acme-warszawa",
		JobTitle:       "HR Business Partner",
		CompanyNameRaw: "ACME Sp. z o.o.",
		PostDate:       "2024-03-01",
		SeniorityLevel: "senior",
		IsRelevant:     true,
	}
}

func TestJobPosting_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *JobPosting)
		wantErr bool
	}{
		{"valid", func(p *JobPosting) {}, false},
		{"missing url", func(p *JobPosting) { p.JobURL = "" }, true},
		{"bad url", func(p *JobPosting) { p.JobURL = "not a url" }, true},
		{"missing title", func(p *JobPosting) { p.JobTitle = "" }, true},
		{"missing company", func(p *JobPosting) { p.CompanyNameRaw = "" }, true},
		{"null post date", func(p *JobPosting) { p.PostDate = "" }, false},
		{"bad post date", func(p *JobPosting) { p.PostDate = "01.03.2024" }, true},
		{"null seniority", func(p *JobPosting) { p.SeniorityLevel = "" }, false},
		{"unknown seniority", func(p *JobPosting) { p.SeniorityLevel = "principal" }, true},
		{"c-level not accepted at ingestion", func(p *JobPosting) { p.SeniorityLevel = "c-level" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPosting()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_SharedAcrossGoroutines(t *testing.T) {
	var wg sync.WaitGroup
	errs := make([]error, 64)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := validPosting()
			if i%2 == 1 {
				p.JobURL = ""
			}
			errs[i] = p.Validate()
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if i%2 == 0 {
			assert.NoError(t, err)
			continue
		}
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "JobURL", verrs[0].Field())
	}

	hc := -1
	assert.Error(t, (&CompanyUpdate{HeadcountPoland: &hc}).Validate())
}

func TestJobPosting_PostedOn(t *testing.T) {
	p := validPosting()
	got, ok := p.PostedOn()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)

	p.PostDate = "garbage"
	_, ok = p.PostedOn()
	assert.False(t, ok)
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 11, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 10, DaysBetween(a, b))
	assert.Equal(t, -10, DaysBetween(b, a))
}

func TestCompanyUpdate(t *testing.T) {
	assert.True(t, CompanyUpdate{}.Empty())

	hc := -1
	u := CompanyUpdate{HeadcountPoland: &hc}
	assert.False(t, u.Empty())
	assert.Error(t, u.Validate())

	hc = 450
	assert.NoError(t, u.Validate())
}
