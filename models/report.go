package models

import (
	"time"
)

// ReportStatus is the handling state of a user report
type ReportStatus string

const (
	ReportPending  ReportStatus = "PENDING"
	ReportResolved ReportStatus = "RESOLVED"
)

// Report is a complaint filed by one user against another
type Report struct {
	ID               int64        `db:"id" json:"id"`
	ReporterID       string       `db:"reporter_id" json:"reporter_id"`
	ReporterName     string       `db:"reporter_name" json:"reporter_name"`
	ReportedUserID   string       `db:"reported_user_id" json:"reported_user_id"`
	ReportedUserName string       `db:"reported_user_name" json:"reported_user_name"`
	Reason           string       `db:"reason" json:"reason"`
	Status           ReportStatus `db:"status" json:"status"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
}
