package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/user-service-ext/config"
	"github.com/oksasatya/user-service-ext/internal/adapter"
)

// app-level container to share constructed components across packages
// Router wires the adapter and its modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	mongoDB     *mongo.Database
	redisClient *redis.Client
	publisher   adapter.EventPublisher
)

func SetConfig(c *config.Config)  { cfg = c }
func GetConfig() *config.Config   { return cfg }
func SetLogger(l *logrus.Logger)  { logger = l }
func SetMongo(db *mongo.Database) { mongoDB = db }
func SetRedis(r *redis.Client)    { redisClient = r }

func GetLogger() *logrus.Logger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return logger
}

// SetPublisher stores the role event sink. Pass an untyped nil to disable events.
func SetPublisher(p adapter.EventPublisher) { publisher = p }

// Dependencies bundles what the adapter exposes to its handlers and hooks.
func Dependencies() adapter.Dependencies {
	return adapter.Dependencies{DB: mongoDB, Redis: redisClient, Publisher: publisher}
}
