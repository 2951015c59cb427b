package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role represents an authorization role
// ID is assigned by the store on create; only Permissions change afterwards.
type Role struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Permissions []string           `bson:"permissions" json:"permissions"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func NewRole(name string, permissions []string) *Role {
	return &Role{Name: name, Permissions: permissions}
}
