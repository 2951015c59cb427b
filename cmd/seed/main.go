package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/user-service-ext/config"
	"github.com/oksasatya/user-service-ext/internal/infrastructure/mongodb"
	"github.com/oksasatya/user-service-ext/pkg/helpers"
)

var baseRoles = map[string][]string{
	"admin": {"roles:read", "roles:write", "users:read", "users:write"},
	"user":  {"users:read"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	client, err := mongodb.NewClient(ctx, cfg.MongoURI, cfg.MongoTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	roles := client.Database(cfg.MongoDB).Collection(cfg.RolesCollection)

	// Ensure base roles exist
	for _, name := range []string{"admin", "user"} {
		now := time.Now().UTC()
		var out struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		err := roles.FindOneAndUpdate(ctx,
			bson.M{"name": name},
			bson.M{
				"$set":         bson.M{"permissions": baseRoles[name], "updatedAt": now},
				"$setOnInsert": bson.M{"createdAt": now},
			},
			options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
		).Decode(&out)
		if err != nil {
			log.Fatalf("failed to upsert %s role: %v", name, err)
		}
		fmt.Printf("role ensured: %s=%s\n", name, out.ID.Hex())
	}

	// Dev session + token for the checkToken endpoint
	userID, sessionID := "seed-user", uuid.NewString()
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if err := helpers.OpenSession(ctx, rdb, userID, sessionID, cfg.TokenTTL); err != nil {
		log.Fatalf("failed to open session: %v", err)
	}
	token, err := helpers.EncryptAndSignJWT(cfg.TokenSecrets(), &helpers.Claims{UserID: userID, SessionID: sessionID}, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	fmt.Printf("seeded session: user=%s sid=%s\ntoken=%s\n", userID, sessionID, token)
}
