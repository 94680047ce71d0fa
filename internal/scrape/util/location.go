package util

import "strings"

// JoinCities builds the comma-joined location value stored on a posting.
// "Remote" city entries are dropped; remote appends a single "Remote".
func JoinCities(cities []string, remote bool) string {
	var out []string
	for _, c := range cities {
		c = CleanText(c)
		if c == "" || strings.EqualFold(c, "remote") {
			continue
		}
		out = append(out, c)
	}
	if remote {
		out = append(out, "Remote")
	}
	return NormalizeLocation(strings.Join(out, ", "))
}
