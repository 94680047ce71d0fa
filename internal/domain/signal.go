package domain

type Temperature string

const (
	Hot  Temperature = "hot"
	Warm Temperature = "warm"
	Cold Temperature = "cold"
)

const SignalTypeHiringVelocity = "hiring_velocity"

// Signal is one persisted scoring observation. Signals are append-only.
type Signal struct {
	ID                   int64       `json:"id,omitempty"`
	CompanyID            int64       `json:"company_id"`
	CompanyName          string      `json:"company_name,omitempty"`
	SignalDate           string      `json:"signal_date"`
	SignalType           string      `json:"signal_type"`
	VelocityScore        int         `json:"velocity_score"`
	SeniorityScore       int         `json:"seniority_score"`
	ICPScore             int         `json:"icp_score"`
	ContentScore         int         `json:"content_score"`
	RecencyScore         int         `json:"recency_score"`
	PostingCount7d       int         `json:"posting_count_7d"`
	PostingCount30d      int         `json:"posting_count_30d"`
	PostingCount90d      int         `json:"posting_count_90d"`
	HasDirectorRole      bool        `json:"has_director_role"`
	HasWellbeingKeywords bool        `json:"has_wellbeing_keywords"`
	MultiCityExpansion   bool        `json:"multi_city_expansion"`
	FinalScore           int         `json:"final_score"`
	LeadTemperature      Temperature `json:"lead_temperature"`
	CreatedAt            string      `json:"created_at,omitempty"`
}

const ReportTypeWeeklyDigest = "weekly_digest"

type Report struct {
	ID             int64  `json:"id,omitempty"`
	ReportDate     string `json:"report_date"`
	ReportType     string `json:"report_type"`
	RecipientEmail string `json:"recipient_email"`
	HotCount       int    `json:"hot_count"`
	WarmCount      int    `json:"warm_count"`
	SentAt         string `json:"sent_at,omitempty"`
	EmailSubject   string `json:"email_subject"`
	EmailBody      string `json:"email_body"`
}
