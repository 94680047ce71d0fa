package pracuj

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

const nextDataPage = `<html><head>
<script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"dehydratedState":{"queries":[{"state":{"data":{"groupedOffers":[
 {"groupId":"g1","jobTitle":"HR Business Partner","companyName":"Samsung Electronics Polska Sp. z o.o.",
  "offers":[{"offerAbsoluteUri":"https://www.pracuj.pl/praca/hrbp,oferta,1001","displayWorkplace":"Warszawa"}],
  "lastPublicated":"2026-03-08T10:00:00Z","employmentLevel":"Specjalista (Mid / Regular)",
  "typesOfContract":["umowa o pracę"],"location":[{"city":"Warszawa"},{"city":"Kraków"}]},
 {"groupId":"g2","jobTitle":"Dyrektor HR","employer":{"name":"Orlen S.A."},
  "uri":"/praca/dyrektor-hr,oferta,1002","publishedAt":"2026-03-09","employmentType":"pełny etat","location":"Płock"},
 {"groupId":"g3","jobTitle":"No Company"}
]}}}]}}}}
</script></head><body></body></html>`

func TestParsePage_NextData(t *testing.T) {
	jobs := ParsePage(nextDataPage, now)
	require.Len(t, jobs, 2)

	a := jobs[0]
	assert.Equal(t, "pracuj.pl", a.Source)
	assert.Equal(t, "HR Business Partner", a.JobTitle)
	assert.Equal(t, "Samsung Electronics Polska Sp. z o.o.", a.CompanyNameRaw)
	assert.Equal(t, "https://www.pracuj.pl/praca/hrbp,oferta,1001", a.JobURL)
	assert.Equal(t, "2026-03-08", a.PostDate)
	assert.Equal(t, "Warszawa, Kraków", a.Location)
	assert.Equal(t, "full-time", a.EmploymentType)

	b := jobs[1]
	assert.Equal(t, "Orlen S.A.", b.CompanyNameRaw)
	assert.Equal(t, "https://www.pracuj.pl/praca/dyrektor-hr,oferta,1002", b.JobURL)
	assert.Equal(t, "director", b.SeniorityLevel)
	assert.Equal(t, "full-time", b.EmploymentType)
	assert.Equal(t, "Płock", b.Location)
}

func TestParsePage_ApplicationJSONScript(t *testing.T) {
	page := `<html><body>
<script type="application/json">{"unrelated":[1,2,3]}</script>
<script type="application/json">{"items":[{"title":"Specjalista ds. Kadr","companyName":"PZU","url":"https://www.pracuj.pl/praca/1","posted":"wczoraj"}]}</script>
</body></html>`
	jobs := ParsePage(page, now)
	require.Len(t, jobs, 1)
	assert.Equal(t, "PZU", jobs[0].CompanyNameRaw)
	assert.Equal(t, "2026-03-09", jobs[0].PostDate)
}

func TestParsePage_HTMLFallback(t *testing.T) {
	page := `<html><body>
<div data-test="default-offer">
  <h2 data-test="offer-title"><a href="/praca/people-partner,oferta,77">Senior People Partner</a></h2>
  <h3 data-test="text-company-name">Allegro&nbsp;sp. z o.o.</h3>
  <span data-test="text-region">Poznań</span>
  <span data-test="text-added">3 dni temu</span>
</div>
<div data-test="default-offer">
  <h2 data-test="offer-title"><a href="/x">Orphan</a></h2>
</div>
</body></html>`
	jobs := ParsePage(page, now)
	require.Len(t, jobs, 1)

	j := jobs[0]
	assert.Equal(t, "Senior People Partner", j.JobTitle)
	assert.Equal(t, "https://www.pracuj.pl/praca/people-partner,oferta,77", j.JobURL)
	assert.Equal(t, "Allegro sp. z o.o.", j.CompanyNameRaw)
	assert.Equal(t, "Poznań", j.Location)
	assert.Equal(t, "2026-03-07", j.PostDate)
	assert.Equal(t, "senior", j.SeniorityLevel)
}

func TestParsePage_Empty(t *testing.T) {
	assert.Empty(t, ParsePage("<html><body><p>Brak ofert</p></body></html>", now))
}

func TestFindOffers_DepthLimit(t *testing.T) {
	var data any = []any{map[string]any{"title": "deep", "companyName": "X"}}
	for i := 0; i < maxJSONDepth+2; i++ {
		data = map[string]any{"wrap": data}
	}
	assert.Nil(t, findOffers(data, 0))
}

func TestScrape_PagesAndErrors(t *testing.T) {
	var seen []string
	s := New(Config{BaseURL: "https://example.test/praca"}, nil).WithFetcher(func(_ context.Context, u string) (string, error) {
		seen = append(seen, u)
		if strings.Contains(u, "pn=2") {
			return "", errors.New("blocked")
		}
		return nextDataPage, nil
	})
	s.now = func() time.Time { return now }

	jobs, err := s.Scrape(context.Background(), []string{"hr business partner"}, 2)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.Equal(t, []string{
		"https://example.test/praca?pn=1&q=hr+business+partner",
		"https://example.test/praca?pn=2&q=hr+business+partner",
	}, seen)
}
