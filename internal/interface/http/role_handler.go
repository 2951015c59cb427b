package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service-ext/internal/adapter"
	roleapp "github.com/oksasatya/user-service-ext/internal/application"
	"github.com/oksasatya/user-service-ext/pkg/validation"
)

// RoleHandler exposes roles as a resource collection:
//
//	POST   /roles          {name, permissions}  201 created role
//	GET    /roles                               200 page of roles
//	PATCH  /roles/:roleId  {permissions}        200 updated role
//	DELETE /roles/:roleId                       204 {success}
type RoleHandler struct {
	Svc *roleapp.RoleService
}

func NewRoleHandler(svc *roleapp.RoleService) *RoleHandler {
	return &RoleHandler{Svc: svc}
}

type DeleteResult struct {
	Success bool `json:"success"`
}

// Routes returns the four role endpoints. Only the id-addressed routes carry a
// validator, rejecting an empty roleId before the store is touched.
func (h *RoleHandler) Routes() []adapter.Route {
	requireID := validation.Param("roleId", "required")
	return []adapter.Route{
		{Method: http.MethodPost, Path: "/roles", Validators: []adapter.Validator{}, Handler: h.Create},
		{Method: http.MethodGet, Path: "/roles", Validators: []adapter.Validator{}, Handler: h.List},
		{Method: http.MethodPatch, Path: "/roles/:roleId", Validators: []adapter.Validator{requireID}, Handler: h.Update},
		{Method: http.MethodDelete, Path: "/roles/:roleId", Validators: []adapter.Validator{requireID}, Handler: h.Delete},
	}
}

func (h *RoleHandler) Create(ctx context.Context, logger *logrus.Entry, hc *adapter.HandlerContext) (*adapter.Result, error) {
	name, err := hc.BodyString("name")
	if err != nil {
		return nil, err
	}
	role, err := h.Svc.Create(ctx, name, hc.Body["permissions"])
	if err != nil {
		return nil, err
	}
	logger.WithField("role_id", role.ID.Hex()).Debug("role created")
	return &adapter.Result{Data: role, Status: http.StatusCreated}, nil
}

func (h *RoleHandler) List(ctx context.Context, _ *logrus.Entry, hc *adapter.HandlerContext) (*adapter.Result, error) {
	page, err := h.Svc.List(ctx, hc.Pagination.Page, hc.Pagination.Limit)
	if err != nil {
		return nil, err
	}
	return &adapter.Result{Data: page, Status: http.StatusOK}, nil
}

func (h *RoleHandler) Update(ctx context.Context, logger *logrus.Entry, hc *adapter.HandlerContext) (*adapter.Result, error) {
	id := hc.Params["roleId"]
	role, err := h.Svc.UpdatePermissions(ctx, id, hc.Body["permissions"])
	if err != nil {
		return nil, err
	}
	logger.WithField("role_id", id).Debug("role permissions updated")
	return &adapter.Result{Data: role, Status: http.StatusOK}, nil
}

// Delete reports 204 with {success}; the host drops the body on the wire.
func (h *RoleHandler) Delete(ctx context.Context, logger *logrus.Entry, hc *adapter.HandlerContext) (*adapter.Result, error) {
	id := hc.Params["roleId"]
	ok, err := h.Svc.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{"role_id": id, "deleted": ok}).Debug("role delete")
	return &adapter.Result{Data: DeleteResult{Success: ok}, Status: http.StatusNoContent}, nil
}
