package models

// Role is the access level of a user
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// User represents a user in the system
type User struct {
	Base        `bson:",inline"`
	Name        string `bson:"name" json:"name"`
	Email       string `bson:"email" json:"email"`
	PhoneNumber string `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Password    string `bson:"password" json:"-"`
	Role        Role   `bson:"role" json:"role"`
	IsActive    bool   `bson:"isActive" json:"isActive"`
	Address     string `bson:"address,omitempty" json:"address,omitempty"`
	City        string `bson:"city,omitempty" json:"city,omitempty"`
	Country     string `bson:"country,omitempty" json:"country,omitempty"`
}

// CreateUserInput is the body accepted when an admin creates a user
type CreateUserInput struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=32"`
	Password    string `json:"password" validate:"required,min=6"`
	Role        Role   `json:"role" validate:"omitempty,oneof=CUSTOMER ADMIN"`
}

// UpdateUserInput holds the fields an admin may change; nil fields are left untouched
type UpdateUserInput struct {
	Name        *string `bson:"name,omitempty" json:"name" validate:"omitempty,min=1"`
	Email       *string `bson:"email,omitempty" json:"email" validate:"omitempty,email"`
	PhoneNumber *string `bson:"phoneNumber,omitempty" json:"phoneNumber" validate:"omitempty,max=32"`
	Password    *string `bson:"password,omitempty" json:"password" validate:"omitempty,min=6"`
	Role        *Role   `bson:"role,omitempty" json:"role" validate:"omitempty,oneof=CUSTOMER ADMIN"`
	IsActive    *bool   `bson:"isActive,omitempty" json:"isActive"`
	Address     *string `bson:"address,omitempty" json:"address"`
	City        *string `bson:"city,omitempty" json:"city"`
	Country     *string `bson:"country,omitempty" json:"country"`
}

// GuestUserInput identifies a shopper checking out without an account
type GuestUserInput struct {
	Name        string `json:"name"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
}

// RegisterInput is the body of POST /auth/register
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Credentials is the body of POST /auth/login
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
