package repository

import (
	"context"
	"fmt"

	"arenabot/database"
	"arenabot/models"
)

// ReportRepository implements the service.ReportRepository interface
type ReportRepository struct {
	q queryable
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *database.DB) *ReportRepository {
	return &ReportRepository{q: db.Pool}
}

// newReportRepositoryWithTx creates a new report repository with a transaction
func newReportRepositoryWithTx(tx queryable) *ReportRepository {
	return &ReportRepository{q: tx}
}

// Create files a new report
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports
		(reporter_id, reporter_name, reported_user_id, reported_user_name, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		report.ReporterID, report.ReporterName, report.ReportedUserID,
		report.ReportedUserName, report.Reason, report.Status,
	).Scan(&report.ID, &report.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// List returns reports, optionally filtered by status, newest first
func (r *ReportRepository) List(ctx context.Context, status *models.ReportStatus) ([]*models.Report, error) {
	query := `
		SELECT id, reporter_id, reporter_name, reported_user_id,
		       reported_user_name, reason, status, created_at
		FROM reports
	`
	var args []any
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		var rep models.Report
		err := rows.Scan(&rep.ID, &rep.ReporterID, &rep.ReporterName,
			&rep.ReportedUserID, &rep.ReportedUserName, &rep.Reason,
			&rep.Status, &rep.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, &rep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return reports, nil
}

// Resolve marks a report handled
func (r *ReportRepository) Resolve(ctx context.Context, id int64) error {
	result, err := r.q.Exec(ctx,
		`UPDATE reports SET status = $1 WHERE id = $2`,
		models.ReportResolved, id,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve report %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("report %d not found", id)
	}
	return nil
}
