package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/user-service-ext/internal/domain/entity"
	"github.com/oksasatya/user-service-ext/internal/domain/repository"
)

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type RoleAuditRepository struct {
	db DB
}

func NewRoleAuditRepository(db DB) *RoleAuditRepository {
	return &RoleAuditRepository{db: db}
}

func (r *RoleAuditRepository) Append(ctx context.Context, a *entity.RoleAudit) error {
	perms := a.Permissions
	if perms == nil {
		perms = []string{}
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO role_audit_log (event_type, role_id, name, permissions, request_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.EventType, a.RoleID, a.Name, perms, a.RequestID, a.OccurredAt)
	if err != nil {
		return fmt.Errorf("append role audit: %w", err)
	}
	return nil
}

var _ repository.RoleAuditRepository = (*RoleAuditRepository)(nil)
