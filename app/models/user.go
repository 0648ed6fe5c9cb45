package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a local account created lazily on first GitHub login and never
// explicitly deleted. githubId is the join key to the identity provider.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GithubID string             `bson:"githubId"      json:"githubId"`
	Username string             `bson:"username"      json:"username"`
	Email    string             `bson:"email"         json:"email"`
	Avatar   string             `bson:"avatar"        json:"avatar"`
}
