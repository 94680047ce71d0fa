package util

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"hr-alerter/internal/domain"
)

var daysAgoRe = regexp.MustCompile(`(\d+)\s*dni\s*temu`)

// ParsePolishDate understands the relative phrases Polish boards print
// ("dzisiaj", "wczoraj", "5 dni temu") as well as 2006-01-02 and 02.01.2006.
// today anchors the relative forms. ok is false when nothing matched.
func ParsePolishDate(s string, today time.Time) (t time.Time, ok bool) {
	text := strings.ToLower(strings.TrimSpace(s))
	if text == "" {
		return time.Time{}, false
	}
	today = domain.Day(today)

	switch {
	case strings.Contains(text, "dzisiaj"), strings.Contains(text, "dziś"), strings.Contains(text, "dzis"):
		return today, true
	case strings.Contains(text, "wczoraj"):
		return today.AddDate(0, 0, -1), true
	}

	if m := daysAgoRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return today.AddDate(0, 0, -n), true
		}
	}

	if t, err := time.Parse(domain.DateLayout, text); err == nil {
		return t, true
	}
	if t, err := time.Parse("02.01.2006", text); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FormatDate renders t as a post_date value.
func FormatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}
