package server

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	errs "github.com/barefootnomad/api/errors"
	"github.com/barefootnomad/api/models"
	"github.com/barefootnomad/api/server/response"
	"github.com/barefootnomad/api/services/jwt"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const requestIDHeader = "X-Request-ID"

// Authorize resolves the bearer token to a user and stores it on the
// context as "user", "userID", "role" and "access_token".
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getAccessToken(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		if s.AuthRepository.IsTokenInBlacklist(accessToken) {
			respondAndAbort(c, "Access token is blacklisted", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		claims, err := jwt.ParseAccessToken(accessToken, s.Config.JWTSecret)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		user, err := s.AuthRepository.FindUserByID(claims.ID)
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				respondAndAbort(c, "user not found", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			default:
				log.Printf("Authorize: %v", err)
				respondAndAbort(c, "unable to find entity", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			}
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		c.Set("role", user.Role.Value)
		c.Set("access_token", accessToken)
		c.Next()
	}
}

// callerFrom reads what Authorize stored.
func callerFrom(c *gin.Context) models.Caller {
	return models.Caller{
		ID:   c.GetUint("userID"),
		Role: c.MustGet("role").(models.RoleLevel),
	}
}

// getAccessToken returns the bearer token. Browsers cannot set headers on
// websocket handshakes, so those may pass ?token= instead.
func getAccessToken(c *gin.Context) string {
	authHeader := c.Request.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	if c.IsWebsocket() {
		return c.Query("token")
	}
	return ""
}

// requestID tags each request and response with an id for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func limitRateForLogin(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errs.ErrorHandler,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
}

func limitRateForPasswordReset(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errs.ErrorHandler,
		KeyFunc:      keyFunc,
	})
}

// keyFunc buckets password reset calls by the email in the body, leaving
// the body readable for the handler.
func keyFunc(c *gin.Context) string {
	buf, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return c.ClientIP()
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))

	var foundUser models.ForgotPassword
	if err := decode(c, &foundUser); err != nil || foundUser.Email == "" {
		c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))
		return c.ClientIP()
	}

	c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))
	return strings.ToLower(strings.TrimSpace(foundUser.Email))
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *errs.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}
