package repository

import (
	"context"

	"github.com/oksasatya/user-service-ext/internal/domain/entity"
)

// RoleAuditRepository appends role change records.
type RoleAuditRepository interface {
	Append(ctx context.Context, a *entity.RoleAudit) error
}
