package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service-ext/internal/adapter"
	"github.com/oksasatya/user-service-ext/internal/domain/entity"
	repo "github.com/oksasatya/user-service-ext/internal/domain/repository"
)

const (
	RoleCreated = "role.created"
	RoleUpdated = "role.updated"
	RoleDeleted = "role.deleted"
)

// RoleEvent is published after every successful role write.
type RoleEvent struct {
	Type        string    `json:"type"`
	RoleID      string    `json:"role_id"`
	Name        string    `json:"name,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	At          time.Time `json:"at"`
}

// EventType is used as the AMQP message type.
func (e RoleEvent) EventType() string { return e.Type }

type RoleService struct {
	Repo   repo.RoleRepository
	Pub    adapter.EventPublisher
	Logger *logrus.Logger
}

func NewRoleService(r repo.RoleRepository, pub adapter.EventPublisher, logger *logrus.Logger) *RoleService {
	return &RoleService{Repo: r, Pub: pub, Logger: logger}
}

// Create persists a new role. permissions is the raw request value; anything that
// is not a list of strings fails here with *adapter.ConversionError.
func (s *RoleService) Create(ctx context.Context, name string, permissions any) (*entity.Role, error) {
	perms, err := adapter.StringSlice("permissions", permissions)
	if err != nil {
		return nil, err
	}
	role, err := s.Repo.Create(ctx, entity.NewRole(name, perms))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, RoleEvent{Type: RoleCreated, RoleID: role.ID.Hex(), Name: role.Name, Permissions: role.Permissions})
	return role, nil
}

// List returns one page of roles, unfiltered and in store order.
func (s *RoleService) List(ctx context.Context, page, limit int) (*repo.Page[entity.Role], error) {
	return s.Repo.FindWithPagination(ctx, repo.Query{Filter: map[string]any{}, Page: page, Limit: limit})
}

// UpdatePermissions replaces the permission set of role id. The name is never touched.
func (s *RoleService) UpdatePermissions(ctx context.Context, id string, permissions any) (*entity.Role, error) {
	perms, err := adapter.StringSlice("permissions", permissions)
	if err != nil {
		return nil, err
	}
	role, err := s.Repo.Update(ctx, id, repo.Patch{"permissions": perms})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, RoleEvent{Type: RoleUpdated, RoleID: id, Name: role.Name, Permissions: role.Permissions})
	return role, nil
}

// Delete removes role id and reports whether anything was removed.
func (s *RoleService) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		s.publish(ctx, RoleEvent{Type: RoleDeleted, RoleID: id})
	}
	return ok, nil
}

type requestIDKey struct{}

// WithRequestID tags ctx so published events can be correlated with the request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func (s *RoleService) publish(ctx context.Context, ev RoleEvent) {
	if s.Pub == nil {
		return
	}
	ev.At = time.Now().UTC()
	ev.RequestID, _ = ctx.Value(requestIDKey{}).(string)
	if err := s.Pub.PublishJSON(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"event": ev.Type, "role_id": ev.RoleID}).Warn("publish role event failed")
	}
}
