package rank

import (
	"context"
	"time"

	"hr-alerter/internal/domain"
)

type SignalSaver interface {
	SaveSignal(ctx context.Context, s domain.Signal) (int64, error)
}

// Recorder appends one signal per scoring result.
type Recorder struct {
	Store SignalSaver
}

// Signal converts r into a persistable signal. An empty signalType
// defaults to hiring_velocity.
func (r Result) Signal(signalDate time.Time, signalType string) domain.Signal {
	if signalType == "" {
		signalType = domain.SignalTypeHiringVelocity
	}
	return domain.Signal{
		CompanyID:            r.CompanyID,
		SignalDate:           domain.Day(signalDate).Format(domain.DateLayout),
		SignalType:           signalType,
		VelocityScore:        r.Velocity,
		SeniorityScore:       r.Seniority,
		ICPScore:             r.ICP,
		ContentScore:         r.Content,
		RecencyScore:         r.Recency,
		PostingCount7d:       r.PostingCount7d,
		PostingCount30d:      r.PostingCount30d,
		PostingCount90d:      r.PostingCount90d,
		HasDirectorRole:      r.HasDirectorRole,
		HasWellbeingKeywords: r.HasWellbeingKeywords,
		MultiCityExpansion:   r.MultiCityExpansion,
		FinalScore:           r.FinalScore,
		LeadTemperature:      r.LeadTemperature,
	}
}

// Record appends a signal dated signalDate (today when zero).
func (rec Recorder) Record(ctx context.Context, r Result, signalDate time.Time, signalType string) (int64, error) {
	if signalDate.IsZero() {
		signalDate = time.Now()
	}
	return rec.Store.SaveSignal(ctx, r.Signal(signalDate, signalType))
}
