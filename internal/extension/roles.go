package extension

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service-ext/internal/adapter"
	"github.com/oksasatya/user-service-ext/internal/application"
	"github.com/oksasatya/user-service-ext/internal/domain/entity"
	"github.com/oksasatya/user-service-ext/internal/infrastructure/mongodb"
	handlers "github.com/oksasatya/user-service-ext/internal/interface/http"
)

const DefaultRolesCollection = "roles"

var ErrNoDatabase = errors.New("adapter dependencies carry no database")

// BeforeStartService returns the hook that appends the role endpoints to the
// service options. The role store lives in collection on the adapter's database.
func BeforeStartService(collection string, logger *logrus.Logger) adapter.BeforeStartServiceHook {
	if collection == "" {
		collection = DefaultRolesCollection
	}
	return func(_ context.Context, opts adapter.ServiceOptions) (adapter.ServiceOptions, error) {
		if opts.Adapter == nil || opts.Adapter.Dependencies.DB == nil {
			return opts, ErrNoDatabase
		}
		deps := opts.Adapter.Dependencies
		repo := mongodb.NewRepository[entity.Role](deps.DB, collection)
		h := handlers.NewRoleHandler(application.NewRoleService(repo, deps.Publisher, logger))

		updated := opts
		updated.CustomRoutes = append(append([]adapter.Route{}, opts.CustomRoutes...), h.Routes()...)
		return updated, nil
	}
}
