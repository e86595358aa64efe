package server

import (
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"

	errs "github.com/barefootnomad/api/errors"
	"github.com/barefootnomad/api/models"
	"github.com/barefootnomad/api/server/response"
	"github.com/barefootnomad/api/services"
	jwtPackage "github.com/barefootnomad/api/services/jwt"
	"github.com/barefootnomad/api/services/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Define allowed MIME types and max file size
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var signup models.SignupRequest
		if err := decode(c, &signup); err != nil {
			response.HandleErrors(c, err)
			return
		}

		userResponse, apiErr := s.AuthService.SignupUser(&signup)
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "Signup successful", http.StatusCreated, userResponse, nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := decode(c, &loginRequest); err != nil {
			response.HandleErrors(c, err)
			return
		}

		userResponse, apiErr := s.AuthService.LoginUser(&loginRequest)
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "Login successful", http.StatusOK, userResponse, nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := c.GetString("access_token")
		if accessToken == "" {
			log.Println("Access token not found in context")
			respondAndAbort(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		if apiErr := s.AuthService.Logout(accessToken); apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "Logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, apiErr := s.AuthService.GetUserProfile(c.GetUint("userID"))
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "user profile", http.StatusOK, profile, nil)
	}
}

// validateFile checks the file type and size
func validateFile(file *multipart.FileHeader) *errs.Error {
	if file.Size > services.MaxAvatarSize {
		return errs.ValidationError("file size exceeds the 5MB limit")
	}
	if !allowedMimeTypes[file.Header.Get("Content-Type")] {
		return errs.ValidationError("unsupported file type, use jpeg, png or gif")
	}
	return nil
}

func (s *Server) handleUpdateAvatar() gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("avatar")
		if err != nil {
			response.HandleErrors(c, errs.ValidationError("avatar file is required"))
			return
		}
		if apiErr := validateFile(header); apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}

		file, err := header.Open()
		if err != nil {
			response.HandleErrors(c, errs.InternalError(err))
			return
		}
		defer file.Close()

		url, apiErr := s.AuthService.UpdateAvatar(c.Request.Context(), c.GetUint("userID"), file)
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "avatar updated", http.StatusOK, gin.H{"image_url": url}, nil)
	}
}

func (s *Server) handleUpdateUserRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body models.UpdateRoleRequest
		if err := decode(c, &body); err != nil {
			response.HandleErrors(c, err)
			return
		}

		user, apiErr := s.AuthService.UpdateUserRole(callerFrom(c), c.Param("user_id"), body.Role)
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "role updated", http.StatusOK, user, nil)
	}
}

func (s *Server) googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.Config.GoogleClientID,
		ClientSecret: s.Config.GoogleClientSecret,
		RedirectURL:  s.Config.GoogleRedirectURL,
		Endpoint:     google.Endpoint,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
	}
}

func (s *Server) HandleGoogleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.Config.GoogleEnabled() {
			response.HandleErrors(c, errs.New("google login is not configured", http.StatusServiceUnavailable))
			return
		}

		nonce, err := utils.RandomString(16)
		if err != nil {
			response.HandleErrors(c, errs.InternalError(err))
			return
		}
		state, err := jwtPackage.GenerateStateToken(nonce, s.Config.JWTSecret)
		if err != nil {
			response.HandleErrors(c, errs.InternalError(err))
			return
		}

		c.Redirect(http.StatusTemporaryRedirect, s.googleOAuthConfig().AuthCodeURL(state))
	}
}

func (s *Server) HandleGoogleCallback() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.Config.GoogleEnabled() {
			response.HandleErrors(c, errs.New("google login is not configured", http.StatusServiceUnavailable))
			return
		}
		if err := jwtPackage.VerifyStateToken(c.Query("state"), s.Config.JWTSecret); err != nil {
			log.Println("Invalid or expired state")
			response.HandleErrors(c, errs.New("Invalid or expired state", http.StatusForbidden))
			return
		}
		code := c.Query("code")
		if code == "" {
			response.HandleErrors(c, errs.ValidationError("missing authorization code"))
			return
		}

		ctx := c.Request.Context()
		conf := s.googleOAuthConfig()
		token, err := conf.Exchange(ctx, code)
		if err != nil {
			log.Printf("Token exchange failed: %v", err)
			response.HandleErrors(c, errs.New("Token exchange failed", http.StatusUnauthorized))
			return
		}

		googleUser, err := fetchGoogleUser(conf.Client(ctx, token))
		if err != nil {
			log.Printf("Failed to fetch user information: %v", err)
			response.HandleErrors(c, errs.InternalError(err))
			return
		}

		loginResponse, apiErr := s.AuthService.GoogleLoginUser(googleUser)
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "Login successful", http.StatusOK, loginResponse, nil)
	}
}

func fetchGoogleUser(client *http.Client) (*models.GoogleUser, error) {
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned %s", resp.Status)
	}

	var user models.GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode google userinfo: %w", err)
	}
	return &user, nil
}
