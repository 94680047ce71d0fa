package nofluff

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingsFixture = `{"postings":[
 {"category":"hr","title":"HR Business Partner","name":"Allegro","url":"hr-business-partner-allegro-warszawa",
  "location":{"places":[{"city":"Warszawa"},{"city":"Remote"}],"fullyRemote":false},
  "fullyRemote":true,"posted":1760572800000,"seniority":["Senior"]},
 {"category":"backend","title":"Go Developer","name":"Allegro","url":"go-dev","posted":1760572800000},
 {"category":"backend","title":"Talent Acquisition Specialist","name":"Sii Polska","url":"/ta-sii",
  "location":{"places":[{"city":"Kraków"},{"city":"Kraków"}]},"posted":0},
 {"category":"hr","title":"","name":"Nameless","url":"x"},
 {"category":"marketing","title":"Growth Marketer","name":"Booksy","url":"growth"}
]}`

func serve(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScrape_KeepsHRPostings(t *testing.T) {
	srv := serve(t, postingsFixture)
	s := New(Config{APIURL: srv.URL}, nil)

	jobs, err := s.Scrape(context.Background(), nil, 1)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	hrbp := jobs[0]
	assert.Equal(t, "nofluffjobs", hrbp.Source)
	assert.Equal(t, "https://nofluffjobs.com/pl/job/hr-business-partner-allegro-warszawa", hrbp.JobURL)
	assert.Equal(t, "Allegro", hrbp.CompanyNameRaw)
	assert.Equal(t, "Warszawa, Remote", hrbp.Location)
	assert.Equal(t, "2025-10-16", hrbp.PostDate)
	assert.Equal(t, "senior", hrbp.SeniorityLevel)
	assert.True(t, hrbp.IsRelevant)

	ta := jobs[1]
	assert.Equal(t, "https://nofluffjobs.com/pl/job/ta-sii", ta.JobURL)
	assert.Equal(t, "Kraków", ta.Location)
	assert.Empty(t, ta.PostDate)
}

func TestScrape_ExtraKeywords(t *testing.T) {
	srv := serve(t, postingsFixture)
	s := New(Config{APIURL: srv.URL}, nil)

	jobs, err := s.Scrape(context.Background(), []string{"Growth"}, 1)
	require.NoError(t, err)
	assert.Len(t, jobs, 3)
}

func TestScrape_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := New(Config{APIURL: srv.URL}, nil).Scrape(context.Background(), nil, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestMergeKeywords(t *testing.T) {
	got := mergeKeywords([]string{"hr", "people"}, []string{" HR ", "Kadry", ""})
	assert.Equal(t, []string{"hr", "people", "kadry"}, got)
}
