package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/barefootnomad/api/config"
	"github.com/barefootnomad/api/db"
	apiError "github.com/barefootnomad/api/errors"
	"github.com/barefootnomad/api/mailingservices"
	"github.com/barefootnomad/api/models"
	"github.com/barefootnomad/api/services/jwt"
	"github.com/barefootnomad/api/services/utils"
	"gorm.io/gorm"
)

// AuthService interface
type AuthService interface {
	SignupUser(request *models.SignupRequest) (*models.LoginResponse, *apiError.Error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	Logout(token string) *apiError.Error
	GetUserProfile(userID uint) (*models.UserResponse, *apiError.Error)
	UpdateAvatar(ctx context.Context, userID uint, image io.Reader) (string, *apiError.Error)
	SendEmailForPasswordReset(ctx context.Context, user *models.ForgotPassword) *apiError.Error
	ResetPassword(user *models.ResetPassword, token string) *apiError.Error
	GoogleLoginUser(googleUser *models.GoogleUser) (*models.LoginResponse, *apiError.Error)
	UpdateUserRole(caller models.Caller, userID string, roleName string) (*models.UserResponse, *apiError.Error)
}

// authService struct
type authService struct {
	Config   *config.Config
	authRepo db.AuthRepository
	mailer   mailingservices.Mailer
	storage  AvatarStorage
}

// NewAuthService instantiate an authService. mailer and storage may be nil
// when the matching integration is not configured.
func NewAuthService(authRepo db.AuthRepository, conf *config.Config, mailer mailingservices.Mailer, storage AvatarStorage) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
		mailer:   mailer,
		storage:  storage,
	}
}

func (a *authService) issueToken(user *models.User) (*models.LoginResponse, *apiError.Error) {
	accessToken, err := jwt.GenerateToken(user.ID, user.Role.Value, a.Config.JWTSecret, a.Config.TokenTTL)
	if err != nil {
		log.Printf("Error generating token for user %s: %v", user.Email, err)
		return nil, apiError.ErrInternalServerError
	}
	return &models.LoginResponse{
		UserResponse: user.ToResponse(),
		AccessToken:  accessToken,
	}, nil
}

func (a *authService) SignupUser(request *models.SignupRequest) (*models.LoginResponse, *apiError.Error) {
	if err := models.Sanitize(request); err != nil {
		return nil, apiError.ValidationError(err.Error())
	}
	if err := models.ValidatePassword(request.Password); err != nil {
		return nil, apiError.ValidationError(err.Error())
	}

	if err := a.authRepo.IsEmailExist(request.Email); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		log.Printf("SignupUser error hashing password: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	user, err := a.authRepo.CreateUser(&models.User{
		Firstname:      request.Firstname,
		Lastname:       request.Lastname,
		Email:          request.Email,
		HashedPassword: hashedPassword,
	})
	if err != nil {
		log.Printf("SignupUser error creating user: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}
	return a.issueToken(user)
}

// LoginUser logs in a user and returns the login response
func (a *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	if err := models.Sanitize(loginRequest); err != nil {
		return nil, apiError.ValidationError(err.Error())
	}
	foundUser, err := a.authRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrInvalidCredentials
		}
		log.Printf("Error finding user by email: %v", err)
		return nil, apiError.New("unable to find user", http.StatusInternalServerError)
	}

	if foundUser.HashedPassword == "" || foundUser.VerifyPassword(loginRequest.Password) != nil {
		log.Printf("Invalid password for user %s", foundUser.Email)
		return nil, apiError.ErrInvalidCredentials
	}
	return a.issueToken(foundUser)
}

func (a *authService) Logout(token string) *apiError.Error {
	if err := a.authRepo.AddToBlackList(&models.Blacklist{Token: token}); err != nil {
		log.Printf("can't add access token to blacklist: %v", err)
		return apiError.InternalError(err)
	}
	return nil
}

func (a *authService) GetUserProfile(userID uint) (*models.UserResponse, *apiError.Error) {
	user, err := a.authRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.NotFoundError("user not found")
		}
		return nil, apiError.InternalError(err)
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (a *authService) UpdateAvatar(ctx context.Context, userID uint, image io.Reader) (string, *apiError.Error) {
	if a.storage == nil {
		return "", apiError.New("file storage is not configured", http.StatusServiceUnavailable)
	}
	limited, err := readLimited(image, MaxAvatarSize)
	if err != nil {
		return "", apiError.ValidationError("image must not exceed 5MB")
	}
	data, err := ProcessAvatar(limited)
	if err != nil {
		return "", apiError.ValidationError("unable to read image")
	}
	url, err := a.storage.UploadAvatar(ctx, userID, data)
	if err != nil {
		return "", apiError.InternalError(err)
	}
	if err := a.authRepo.UpsertUserImage(userID, url); err != nil {
		return "", apiError.InternalError(err)
	}
	return url, nil
}

// SendEmailForPasswordReset mails a reset link. Unknown addresses succeed
// without sending anything.
func (a *authService) SendEmailForPasswordReset(ctx context.Context, user *models.ForgotPassword) *apiError.Error {
	if err := models.Sanitize(user); err != nil {
		return apiError.ValidationError(err.Error())
	}
	foundUser, err := a.authRepo.FindUserByEmail(user.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apiError.InternalError(err)
	}

	resetToken, err := jwt.GeneratePasswordResetToken(foundUser.Email, a.Config.JWTSecret, a.Config.ResetTokenTTL)
	if err != nil {
		return apiError.InternalError(err)
	}
	link := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(a.Config.BaseUrl, "/"), resetToken)

	if a.mailer == nil {
		log.Printf("mail disabled; password reset link for %s: %s", foundUser.Email, link)
		return nil
	}
	body := fmt.Sprintf("Hi %s,\n\nUse the link below to reset your password. It expires in %s.\n\n%s",
		foundUser.Firstname, a.Config.ResetTokenTTL, link)
	if err := a.mailer.SendSimpleMessage(ctx, foundUser.Email, "Reset your Barefoot Nomad password", body); err != nil {
		log.Printf("error sending password reset mail: %v", err)
		return apiError.New("unable to send password reset mail", http.StatusInternalServerError)
	}
	return nil
}

func (a *authService) ResetPassword(user *models.ResetPassword, token string) *apiError.Error {
	email, err := jwt.VerifyResetToken(token, a.Config.JWTSecret)
	if err != nil {
		return apiError.NotAuthorizedError("invalid or expired token")
	}
	if err := models.ValidatePassword(user.Password); err != nil {
		return apiError.ValidationError(err.Error())
	}

	foundUser, err := a.authRepo.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.NotFoundError("user not found")
		}
		return apiError.InternalError(err)
	}

	hashedPassword, err := utils.HashPassword(user.Password)
	if err != nil {
		return apiError.ErrInternalServerError
	}
	if err := a.authRepo.UpdatePassword(foundUser.ID, hashedPassword); err != nil {
		return apiError.InternalError(err)
	}
	return nil
}

// GoogleLoginUser signs in a Google account, creating the user on first
// login.
func (a *authService) GoogleLoginUser(googleUser *models.GoogleUser) (*models.LoginResponse, *apiError.Error) {
	email := strings.ToLower(strings.TrimSpace(googleUser.Email))
	if email == "" {
		return nil, apiError.ValidationError("google account has no email")
	}

	foundUser, err := a.authRepo.FindUserByEmail(email)
	if err == nil {
		return a.issueToken(foundUser)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apiError.InternalError(err)
	}

	newUser, err := a.authRepo.CreateUser(&models.User{
		Firstname:  googleUser.GivenName,
		Lastname:   googleUser.FamilyName,
		Email:      email,
		ImageURL:   googleUser.Picture,
		IsVerified: googleUser.VerifiedEmail,
		IsSocial:   true,
	})
	if err != nil {
		log.Printf("Error creating google user: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}
	return a.issueToken(newUser)
}

// UpdateUserRole lets a super admin assign any role by name.
func (a *authService) UpdateUserRole(caller models.Caller, userID string, roleName string) (*models.UserResponse, *apiError.Error) {
	if !caller.Role.AtLeast(models.RoleSuperAdmin) {
		return nil, apiError.ErrUnauthorized
	}
	id, ok := parseID(userID)
	if !ok {
		return nil, apiError.ValidationError("Invalid user id")
	}
	level, ok := models.ParseRoleLevel(roleName)
	if !ok {
		return nil, apiError.ValidationError(fmt.Sprintf("unknown role %q", roleName))
	}
	role, err := a.authRepo.FindRoleByLevel(level)
	if err != nil {
		return nil, apiError.InternalError(err)
	}

	if err := a.authRepo.UpdateUserRole(id, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.NotFoundError("user not found")
		}
		return nil, apiError.InternalError(err)
	}
	return a.GetUserProfile(id)
}

// readLimited reads at most limit bytes and fails when r holds more.
func readLimited(r io.Reader, limit int64) (*bytes.Reader, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file exceeds %d bytes", limit)
	}
	return bytes.NewReader(data), nil
}
