package types

import (
	"net/mail"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role controls which parts of the API a user may reach
type Role string

// All roles a user can hold
const (
	RoleAdmin  Role = "admin"
	RoleExpert Role = "expert"
	RoleUser   Role = "user"
)

// Valid determines whether the role is a member of the enum
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleExpert || r == RoleUser
}

// User is the account document stored in MongoDB.
// The password field holds a bcrypt hash and never leaves the API.
type User struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Username  string             `json:"username" bson:"username"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	Role      Role               `json:"role" bson:"role"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Session is the JSON shape that is used to track authenticated sessions
type Session struct {
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	IssuedAt time.Time `json:"issued_at"`
}

// UserCreate is the registration request payload
type UserCreate struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// minPasswordLength mirrors the complexity floor
// enforced on the original sign-up form
const minPasswordLength = 8

// Validate checks the registration payload,
// leaving the role optional (it defaults to "user")
func (c *UserCreate) Validate() error {
	if c.Username == "" {
		return NewValidationError("User Name is required.")
	}
	if c.Email == "" {
		return NewValidationError("Email is required.")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return NewValidationError("Email must be a valid email address.")
	}
	if len(c.Password) < minPasswordLength {
		return NewValidationError("Password must be at least 8 characters long.")
	}
	if c.Role != "" && !c.Role.Valid() {
		return NewValidationError("Role must be one of admin, expert, or user.")
	}

	return nil
}

// User converts a validated payload into a storable document
// with the given password hash
func (c *UserCreate) User(passwordHash string) User {
	role := c.Role
	if role == "" {
		role = RoleUser
	}

	return User{
		Username:  c.Username,
		Email:     c.Email,
		Password:  passwordHash,
		Role:      role,
		CreatedAt: time.Now(),
	}
}

// Credentials is the login request payload
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
