package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service-ext/internal/domain/entity"
	repo "github.com/oksasatya/user-service-ext/internal/domain/repository"
)

// ErrBadEvent marks a message that can never be recorded; it should be dropped, not retried.
var ErrBadEvent = errors.New("bad role event")

// RoleAuditor turns published RoleEvents into audit rows.
type RoleAuditor struct {
	Repo   repo.RoleAuditRepository
	Logger *logrus.Logger
}

func NewRoleAuditor(r repo.RoleAuditRepository, logger *logrus.Logger) *RoleAuditor {
	return &RoleAuditor{Repo: r, Logger: logger}
}

// Handle records one message body. Decode failures wrap ErrBadEvent.
func (a *RoleAuditor) Handle(ctx context.Context, body []byte) error {
	var ev RoleEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %w", ErrBadEvent, err)
	}
	switch ev.Type {
	case RoleCreated, RoleUpdated, RoleDeleted:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrBadEvent, ev.Type)
	}
	if ev.RoleID == "" {
		return fmt.Errorf("%w: missing role_id", ErrBadEvent)
	}

	rec := &entity.RoleAudit{
		EventType:   ev.Type,
		RoleID:      ev.RoleID,
		Name:        ev.Name,
		Permissions: ev.Permissions,
		RequestID:   ev.RequestID,
		OccurredAt:  ev.At,
	}
	if err := a.Repo.Append(ctx, rec); err != nil {
		return err
	}
	if a.Logger != nil {
		a.Logger.WithFields(logrus.Fields{"event": ev.Type, "role_id": ev.RoleID}).Debug("role event recorded")
	}
	return nil
}
