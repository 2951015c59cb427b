package entity

import "time"

// RoleAudit is one row of the role change log written by the audit worker.
type RoleAudit struct {
	ID          int64
	EventType   string
	RoleID      string
	Name        string
	Permissions []string
	RequestID   string
	OccurredAt  time.Time
	RecordedAt  time.Time
}
