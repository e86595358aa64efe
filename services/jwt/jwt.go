package jwt

import (
	"fmt"
	"time"

	"github.com/barefootnomad/api/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	AccessTokenValidity = 24 * time.Hour
	ResetTokenValidity  = 600 * time.Second
	stateTokenValidity  = 10 * time.Minute

	tokenTypeReset = "password_reset_token"
	tokenTypeState = "oauth_state"
)

var ErrInvalidToken = errors.New("invalid token")

// AccessClaims is what Authorize needs from an access token.
type AccessClaims struct {
	ID        uint
	RoleValue models.RoleLevel
}

// GenerateToken signs an access token carrying the user id and role level.
// A zero ttl falls back to AccessTokenValidity.
func GenerateToken(id uint, role models.RoleLevel, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret key is missing")
	}
	if ttl <= 0 {
		ttl = AccessTokenValidity
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"id":         id,
		"role_value": int(role),
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	}
	return sign(claims, secret)
}

func sign(claims jwt.MapClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// ValidateAndGetClaims verifies an HS256 token and returns its raw claims.
func ValidateAndGetClaims(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Wrap(err, "parse token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseAccessToken validates an access token and extracts the caller.
func ParseAccessToken(tokenString, secret string) (*AccessClaims, error) {
	claims, err := ValidateAndGetClaims(tokenString, secret)
	if err != nil {
		return nil, err
	}
	if t, _ := claims["type"].(string); t != "" {
		return nil, ErrInvalidToken
	}

	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return nil, errors.Wrap(ErrInvalidToken, "id claim")
	}
	role, _ := claims["role_value"].(float64)
	return &AccessClaims{ID: uint(id), RoleValue: models.RoleLevel(role)}, nil
}

// GeneratePasswordResetToken generates a short lived token bound to an email.
func GeneratePasswordResetToken(email string, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret key is missing")
	}
	if ttl <= 0 {
		ttl = ResetTokenValidity
	}
	return sign(jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(ttl).Unix(),
		"type":  tokenTypeReset,
	}, secret)
}

// VerifyResetToken returns the email a reset token was issued for.
func VerifyResetToken(tokenString, secret string) (string, error) {
	claims, err := ValidateAndGetClaims(tokenString, secret)
	if err != nil {
		return "", err
	}
	if t, _ := claims["type"].(string); t != tokenTypeReset {
		return "", ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", ErrInvalidToken
	}
	return email, nil
}

// GenerateStateToken signs the oauth2 state parameter.
func GenerateStateToken(nonce, secret string) (string, error) {
	return sign(jwt.MapClaims{
		"nonce": nonce,
		"exp":   time.Now().Add(stateTokenValidity).Unix(),
		"type":  tokenTypeState,
	}, secret)
}

func VerifyStateToken(state, secret string) error {
	claims, err := ValidateAndGetClaims(state, secret)
	if err != nil {
		return err
	}
	if t, _ := claims["type"].(string); t != tokenTypeState {
		return ErrInvalidToken
	}
	return nil
}
