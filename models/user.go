package models

import (
	"errors"

	goval "github.com/go-passwd/validator"
	"github.com/google/uuid"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

// User represents a traveller, manager or admin.
type User struct {
	Model
	Firstname      string    `json:"firstname" conform:"trim,name"`
	Lastname       string    `json:"lastname" conform:"trim,name"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null" conform:"trim,lower"`
	HashedPassword string    `json:"-"`
	ImageURL       string    `json:"image_url"`
	IsVerified     bool      `json:"is_verified" gorm:"default:false"`
	IsSocial       bool      `json:"-"`
	RoleID         uuid.UUID `gorm:"type:uuid" json:"role_id"`
	Role           Role      `gorm:"foreignKey:RoleID" json:"role"`
}

// Author is the public projection of a user attached to comments.
type Author struct {
	ID        uint   `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	ImageURL  string `json:"image_url"`
}

func (Author) TableName() string {
	return "users"
}

type SignupRequest struct {
	Firstname string `json:"firstname" binding:"required,min=2" conform:"trim,name"`
	Lastname  string `json:"lastname" binding:"required,min=2" conform:"trim,name"`
	Email     string `json:"email" binding:"required,email" conform:"trim,lower"`
	Password  string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" conform:"trim,lower"`
	Password string `json:"password" binding:"required"`
}

type ForgotPassword struct {
	Email string `json:"email" binding:"required,email" conform:"trim,lower"`
}

type ResetPassword struct {
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	Email     string    `json:"email"`
	ImageURL  string    `json:"image_url"`
	RoleName  string    `json:"role_name"`
	RoleValue RoleLevel `json:"role_value"`
}

type LoginResponse struct {
	UserResponse
	AccessToken string `json:"access_token"`
}

// ToResponse strips private fields.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Email:     u.Email,
		ImageURL:  u.ImageURL,
		RoleName:  u.Role.Name,
		RoleValue: u.Role.Value,
	}
}

// ValidatePassword enforces the password policy on signup and reset.
func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(32, errors.New("password cant be more than 32 characters")))
	return passwordValidator.Validate(password)
}

// Sanitize trims and normalizes the tagged string fields in place.
func Sanitize(data interface{}) error {
	return conform.Strings(data)
}

// VerifyPassword verifies the collected password with the user's hashed password
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}

// GoogleUser is the subset of the Google userinfo response used at login.
type GoogleUser struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}
