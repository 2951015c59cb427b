// Package adapter defines the typed contract between the host service and its
// customization hooks: route descriptors, the named handler table, and the
// dependencies the host hands to hooks at startup.
package adapter

import (
	"context"
	"net/url"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// CheckTokenHandler is the host's name for the token introspection handler.
const CheckTokenHandler = "checkToken"

// HandlerContext is the request as seen by a handler.
type HandlerContext struct {
	Body       map[string]any
	Params     map[string]string
	Query      url.Values
	Pagination Pagination
}

// Result is serialized by the host as the HTTP response.
type Result struct {
	Data   any
	Status int
}

// HandlerFunc handles one request. Errors are translated to HTTP by the host.
type HandlerFunc func(ctx context.Context, logger *logrus.Entry, hc *HandlerContext) (*Result, error)

// Validator runs before a route handler; a non-nil error aborts the request.
type Validator func(ctx context.Context, hc *HandlerContext) error

// Route is a custom endpoint contributed by a hook.
type Route struct {
	Method     string
	Path       string
	Validators []Validator
	Handler    HandlerFunc
}

// Handlers is the host's named handler table.
type Handlers map[string]HandlerFunc

// EventPublisher publishes JSON-encodable messages. *helpers.RabbitPublisher satisfies it.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Dependencies are shared infrastructure clients. Any of them may be nil.
type Dependencies struct {
	DB        *mongo.Database
	Redis     *redis.Client
	Publisher EventPublisher
}

type Adapter struct {
	Dependencies Dependencies
	Handlers     Handlers
}

// ServiceOptions is what the host starts with after hooks have run.
type ServiceOptions struct {
	Adapter      *Adapter
	CustomRoutes []Route
}

type (
	BeforeStartServiceHook func(ctx context.Context, opts ServiceOptions) (ServiceOptions, error)
	AdapterHandlersHook    func(handlers Handlers) (Handlers, error)
)

// TokenIdentity is the data returned by the host checkToken handler.
type TokenIdentity struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId,omitempty"`
}
