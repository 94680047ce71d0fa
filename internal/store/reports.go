package store

import (
	"context"
	"fmt"

	"hr-alerter/internal/domain"
)

func (d *DB) SaveReport(ctx context.Context, r domain.Report) (int64, error) {
	if r.ReportType == "" {
		r.ReportType = domain.ReportTypeWeeklyDigest
	}
	res, err := d.Pool.ExecContext(ctx, `
INSERT INTO reports (report_date, report_type, recipient_email, hot_count, warm_count, sent_at, email_subject, email_body)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		r.ReportDate, r.ReportType, r.RecipientEmail, r.HotCount, r.WarmCount,
		nullString(r.SentAt), r.EmailSubject, r.EmailBody,
	)
	if err != nil {
		return 0, fmt.Errorf("insert report: %w", err)
	}
	return res.LastInsertId()
}

// MarkReportSent stamps sent_at on a stored report.
func (d *DB) MarkReportSent(ctx context.Context, id int64, sentAt string) error {
	res, err := d.Pool.ExecContext(ctx, `UPDATE reports SET sent_at = ? WHERE id = ?;`, sentAt, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) ReportCount(ctx context.Context) (int, error) {
	var n int
	err := d.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports;`).Scan(&n)
	return n, err
}
