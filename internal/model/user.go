package model

import "time"

// AuthProvider records how a user signs in
type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

// User is a form/event creator
type User struct {
	ID           string       `json:"_id" bson:"_id"`
	Name         string       `json:"name" bson:"name"`
	Email        string       `json:"email" bson:"email"`
	PasswordHash string       `json:"-" bson:"password"` // Never serialize
	GoogleID     string       `json:"googleId" bson:"googleId"`
	AuthProvider AuthProvider `json:"authProvider" bson:"authProvider"`
	CreatedAt    time.Time    `json:"createdAt" bson:"createdAt"`
}
