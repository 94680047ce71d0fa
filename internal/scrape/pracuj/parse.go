package pracuj

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"hr-alerter/internal/domain"
	"hr-alerter/internal/scrape/util"
)

const siteRoot = "https://www.pracuj.pl"

const maxJSONDepth = 12

// ParsePage extracts postings from a results page, preferring the
// embedded JSON state and falling back to the rendered cards. now
// anchors relative dates such as "wczoraj".
func ParsePage(html string, now time.Time) []domain.JobPosting {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Warn().Err(err).Msg("pracuj html parse failed")
		return nil
	}
	if jobs := parseJSON(doc, now); len(jobs) > 0 {
		return jobs
	}
	log.Debug().Msg("pracuj embedded json yielded nothing; trying html cards")
	return parseHTML(doc, now)
}

// --- embedded JSON

func parseJSON(doc *goquery.Document, now time.Time) []domain.JobPosting {
	var scripts []string
	if s := doc.Find(`script#__NEXT_DATA__`).First(); s.Length() > 0 {
		scripts = append(scripts, s.Text())
	}
	doc.Find(`script[type="application/json"]`).Each(func(_ int, s *goquery.Selection) {
		if id, _ := s.Attr("id"); id == "__NEXT_DATA__" {
			return
		}
		scripts = append(scripts, s.Text())
	})

	for _, raw := range scripts {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			continue
		}
		offers := findOffers(data, 0)
		if len(offers) == 0 {
			continue
		}
		if jobs := offersToPostings(offers, now); len(jobs) > 0 {
			return jobs
		}
	}
	return nil
}

var offerMarkerKeys = map[string]bool{
	"jobtitle": true, "job_title": true, "title": true, "name": true,
	"offerid": true, "offer_id": true, "groupid": true, "group_id": true,
}

var preferredKeys = []string{
	"offers", "jobOffers", "groupedOffers", "results",
	"data", "props", "pageProps", "jobs", "items",
	"offersList", "searchResults",
}

// findOffers returns the first list whose leading element looks like a
// job offer. Well-known keys are searched before the rest, which are
// visited in sorted order.
func findOffers(data any, depth int) []map[string]any {
	if depth > maxJSONDepth {
		return nil
	}

	switch v := data.(type) {
	case []any:
		if len(v) > 0 {
			if sample, ok := v[0].(map[string]any); ok && looksLikeOffer(sample) {
				out := make([]map[string]any, 0, len(v))
				for _, item := range v {
					if m, ok := item.(map[string]any); ok {
						out = append(out, m)
					}
				}
				return out
			}
		}
		for _, item := range v {
			if found := findOffers(item, depth+1); len(found) > 0 {
				return found
			}
		}
	case map[string]any:
		seen := map[string]bool{}
		for _, k := range preferredKeys {
			child, ok := v[k]
			if !ok {
				continue
			}
			seen[k] = true
			if found := findOffers(child, depth+1); len(found) > 0 {
				return found
			}
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			if !seen[k] {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch v[k].(type) {
			case map[string]any, []any:
				if found := findOffers(v[k], depth+1); len(found) > 0 {
					return found
				}
			}
		}
	}
	return nil
}

func looksLikeOffer(m map[string]any) bool {
	for k := range m {
		if offerMarkerKeys[strings.ToLower(k)] {
			return true
		}
	}
	return false
}

func offersToPostings(offers []map[string]any, now time.Time) []domain.JobPosting {
	var out []domain.JobPosting
	for _, o := range offers {
		jp := offerToPosting(o, now)
		if jp.JobTitle == "" || jp.CompanyNameRaw == "" {
			continue
		}
		out = append(out, jp)
	}
	return out
}

func offerToPosting(o map[string]any, now time.Time) domain.JobPosting {
	title := strings.TrimSpace(str(first(o, "jobTitle", "job_title", "title", "name")))

	jobURL := str(first(o, "offerAbsoluteUri", "uri", "url", "offerUrl", "job_url"))
	if jobURL == "" {
		// grouped offers keep the link on the first sub-offer
		if subs, ok := o["offers"].([]any); ok && len(subs) > 0 {
			if sub, ok := subs[0].(map[string]any); ok {
				jobURL = str(first(sub, "offerAbsoluteUri", "uri", "url"))
			}
		}
	}
	if jobURL != "" && !strings.HasPrefix(jobURL, "http") {
		jobURL = util.AbsURL(siteRoot, jobURL)
	}

	jp := domain.JobPosting{
		Source:         domain.SourcePracuj,
		JobURL:         jobURL,
		JobTitle:       title,
		CompanyNameRaw: companyName(o),
		Location:       location(o),
		JobDescription: strings.TrimSpace(str(first(o, "jobDescription", "description", "job_description"))),
		EmploymentType: employmentType(o),
		IsRelevant:     true,
	}

	if raw := str(first(o, "lastPublicated", "publishedAt", "posted", "post_date", "expirationDate")); raw != "" {
		if len(raw) > 10 {
			raw = raw[:10]
		}
		if t, ok := util.ParsePolishDate(raw, now); ok {
			jp.PostDate = util.FormatDate(t)
		}
	}

	jp.SeniorityLevel = util.DetectSeniority(str(first(o, "employmentLevel", "seniorityLevel", "experienceLevel")))
	if jp.SeniorityLevel == "" {
		jp.SeniorityLevel = util.DetectSeniority(title)
	}
	return jp
}

func companyName(o map[string]any) string {
	c := first(o, "companyName", "company_name", "employer")
	if m, ok := c.(map[string]any); ok {
		c = first(m, "name", "companyName")
	}
	return strings.TrimSpace(str(c))
}

func location(o map[string]any) string {
	switch loc := first(o, "location", "locations", "city").(type) {
	case string:
		return strings.TrimSpace(loc)
	case []any:
		var parts []string
		for _, item := range loc {
			switch it := item.(type) {
			case string:
				parts = append(parts, it)
			case map[string]any:
				if city := str(first(it, "city", "name", "label")); city != "" {
					parts = append(parts, city)
				}
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		return str(first(loc, "city", "name", "label"))
	}
	return ""
}

func employmentType(o map[string]any) string {
	raw := first(o, "employmentType", "employment_type", "typesOfContract")
	if list, ok := raw.([]any); ok {
		raw = nil
		if len(list) > 0 {
			raw = list[0]
		}
	}
	if m, ok := raw.(map[string]any); ok {
		raw = first(m, "name", "label")
	}
	return util.NormalizeEmploymentType(str(raw))
}

// first returns the first value under keys that is not empty.
func first(m map[string]any, keys ...string) any {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t == "" {
				continue
			}
		case []any:
			if len(t) == 0 {
				continue
			}
		case map[string]any:
			if len(t) == 0 {
				continue
			}
		case bool:
			if !t {
				continue
			}
		case float64:
			if t == 0 {
				continue
			}
		}
		return v
	}
	return nil
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.0f", t)
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// --- rendered cards

type cardSelectors struct {
	card, title, titleLink, company, location, date string
}

// The board reshuffles its markup every so often; the first selector set
// producing postings wins.
var cardStrategies = []cardSelectors{
	{
		card:      "div.listing__item",
		title:     "h2.offer-details__title-link",
		titleLink: "a",
		company:   "h3.company-name",
		location:  "span.offer-labels__item--location",
		date:      "span.offer-labels__item--date",
	},
	{
		card:      `div[data-test="default-offer"]`,
		title:     `h2[data-test="offer-title"]`,
		titleLink: "a",
		company:   `h3[data-test="text-company-name"]`,
		location:  `span[data-test="text-region"]`,
		date:      `span[data-test="text-added"]`,
	},
	{
		card:     "div.c1fljezf",
		title:    "a.tiles_o1859gd9",
		company:  "span.tiles_e1dypgnt",
		location: "span.tiles_l1dvlr6y",
		date:     "span.tiles_d1e6phdx",
	},
	{
		card:     "article",
		title:    "a",
		company:  "span",
		location: "span",
		date:     "time",
	},
}

func parseHTML(doc *goquery.Document, now time.Time) []domain.JobPosting {
	for _, st := range cardStrategies {
		cards := doc.Find(st.card)
		if cards.Length() == 0 {
			continue
		}
		var jobs []domain.JobPosting
		cards.Each(func(_ int, card *goquery.Selection) {
			if jp, ok := parseCard(card, st, now); ok {
				jobs = append(jobs, jp)
			}
		})
		if len(jobs) > 0 {
			log.Debug().Str("selector", st.card).Int("cards", cards.Length()).Int("jobs", len(jobs)).Msg("pracuj html strategy matched")
			return jobs
		}
	}
	return nil
}

func parseCard(card *goquery.Selection, st cardSelectors, now time.Time) (domain.JobPosting, bool) {
	titleEl := card.Find(st.title).First()
	if titleEl.Length() == 0 {
		return domain.JobPosting{}, false
	}
	title := util.CleanText(titleEl.Text())

	var href string
	if st.titleLink != "" {
		href, _ = titleEl.Find(st.titleLink).First().Attr("href")
	} else {
		href, _ = titleEl.Attr("href")
	}
	if href != "" && !strings.HasPrefix(href, "http") {
		href = util.AbsURL(siteRoot, href)
	}

	jp := domain.JobPosting{
		Source:         domain.SourcePracuj,
		JobURL:         href,
		JobTitle:       title,
		CompanyNameRaw: util.CleanText(card.Find(st.company).First().Text()),
		Location:       util.CleanText(card.Find(st.location).First().Text()),
		SeniorityLevel: util.DetectSeniority(title),
		IsRelevant:     true,
	}
	if raw := util.CleanText(card.Find(st.date).First().Text()); raw != "" {
		if t, ok := util.ParsePolishDate(raw, now); ok {
			jp.PostDate = util.FormatDate(t)
		}
	}

	if jp.JobTitle == "" || jp.CompanyNameRaw == "" {
		return domain.JobPosting{}, false
	}
	return jp, true
}
