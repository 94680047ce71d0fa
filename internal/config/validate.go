package config

import (
	"fmt"
	"net/mail"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a trimmed, de-duplicated copy of cfg with
// the problems and soft warnings found in it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Sources.Pracuj.Keywords = trimList(out.Sources.Pracuj.Keywords)
	out.Filters.HRTitleKeywords = trimList(out.Filters.HRTitleKeywords)
	out.Filters.LocationsBlock = trimList(out.Filters.LocationsBlock)
	out.Filters.TitleBlock = trimList(out.Filters.TitleBlock)
	out.Scoring.Keywords.TargetTitles = trimList(out.Scoring.Keywords.TargetTitles)
	out.Scoring.Keywords.Wellbeing = trimList(out.Scoring.Keywords.Wellbeing)
	out.Scoring.Keywords.EAP = trimList(out.Scoring.Keywords.EAP)
	out.Scoring.Keywords.Culture = trimList(out.Scoring.Keywords.Culture)
	out.Report.Recipient = strings.TrimSpace(out.Report.Recipient)
	out.SMTP.Username = strings.TrimSpace(out.SMTP.Username)

	if err := Validate(out); err != nil {
		for _, line := range strings.Split(err.Error(), "\n- ")[1:] {
			res.addErr("%s", line)
		}
	}

	if !out.Sources.NoFluff.Enabled && !out.Sources.Pracuj.Enabled {
		res.addWarn("no sources enabled; scrape will find nothing")
	}
	if out.Sources.Pracuj.Enabled && len(out.Sources.Pracuj.Keywords) == 0 {
		res.addWarn("sources.pracuj.keywords is empty; pracuj.pl will not be searched")
	}
	if out.Sources.Pracuj.MaxPages > 10 {
		res.addWarn("sources.pracuj.max_pages is %d; pracuj.pl may start blocking requests", out.Sources.Pracuj.MaxPages)
	}

	if out.Report.Recipient == "" {
		res.addWarn("report.recipient is empty; weekly reports will be stored but not sent")
	} else if _, err := mail.ParseAddress(out.Report.Recipient); err != nil {
		res.addErr("report.recipient is not a valid address: %q", out.Report.Recipient)
	}
	if out.SMTP.Username == "" {
		res.addWarn("smtp.username is empty; set SMTP_EMAIL to send reports")
	}

	if out.Scoring.CandidateWindowDays > 90 {
		res.addWarn("scoring.candidate_window_days is %d; scores only look back 90 days", out.Scoring.CandidateWindowDays)
	}

	return out, res
}
