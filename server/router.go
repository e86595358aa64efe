package server

import (
	"fmt"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	if s.Config.Env == "test" {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.Use(gin.Recovery())
		s.defineRoutes(r)
		return r
	}
	if s.Config.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// LoggerWithFormatter middleware will write the logs to gin.DefaultWriter
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\" %s\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
			param.Keys["request_id"],
		)
	}))
	r.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(s.Config.AllowOrigins) == 0 || s.Config.AllowOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = s.Config.AllowOrigins
	}
	r.Use(cors.New(corsConfig))
	r.MaxMultipartMemory = 8 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	router.Use(requestID())

	limit := s.Config.LoginRateLimit
	if limit == 0 {
		limit = 5
	}
	loginStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{Rate: time.Minute, Limit: limit})
	resetStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{Rate: time.Hour, Limit: 3})

	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/login", limitRateForLogin(loginStore), s.handleLogin())
	apirouter.GET("/google/login", s.HandleGoogleLogin())
	apirouter.GET("/auth/google/callback", s.HandleGoogleCallback())
	apirouter.POST("/password/forgot", limitRateForPasswordReset(resetStore), s.HandleForgotPassword())
	apirouter.POST("/password/reset/:token", s.ResetPassword())
	apirouter.GET("/locations", s.handleListLocations())
	apirouter.GET("/accommodations", s.handleListAccommodations())
	apirouter.GET("/accommodations/:id", s.handleGetAccommodation())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/logout", s.handleLogout())
	authorized.GET("/me", s.handleShowProfile())
	authorized.PUT("/me/avatar", s.handleUpdateAvatar())
	authorized.PUT("/users/:user_id/role", s.handleUpdateUserRole())

	authorized.POST("/requests", s.handleCreateRequest())
	authorized.GET("/requests", s.handleListMyRequests())
	authorized.GET("/requests/:request_id", s.handleGetRequest())
	authorized.GET("/manager/requests", s.handleListPendingRequests())
	authorized.PATCH("/requests/:request_id/approve", s.handleApproveRequest())
	authorized.PATCH("/requests/:request_id/reject", s.handleRejectRequest())

	authorized.POST("/requests/:request_id/comments", s.handleCreateComment())
	authorized.GET("/requests/:request_id/comments", s.handleListComments())
	authorized.PUT("/requests/:request_id/comments/:comment_id", s.handleEditComment())
	authorized.DELETE("/requests/:request_id/comments/:comment_id", s.handleDeleteComment())

	authorized.POST("/accommodations", s.handleCreateAccommodation())

	authorized.GET("/notifications", s.handleListNotifications())
	authorized.PATCH("/notifications/:id/read", s.handleMarkNotificationRead())
	authorized.GET("/notifications/ws", s.handleNotificationStream())
}
