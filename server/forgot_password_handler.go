package server

import (
	"net/http"

	"github.com/barefootnomad/api/models"
	"github.com/barefootnomad/api/server/response"
	"github.com/gin-gonic/gin"
)

func (s *Server) HandleForgotPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var forgot models.ForgotPassword
		if err := decode(c, &forgot); err != nil {
			response.HandleErrors(c, err)
			return
		}

		if apiErr := s.AuthService.SendEmailForPasswordReset(c.Request.Context(), &forgot); apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "If the email is registered, a reset link has been sent", http.StatusOK, nil, nil)
	}
}

func (s *Server) ResetPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var resetPassword models.ResetPassword
		if err := decode(c, &resetPassword); err != nil {
			response.HandleErrors(c, err)
			return
		}

		if apiErr := s.AuthService.ResetPassword(&resetPassword, c.Param("token")); apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "Password Reset Successfully", http.StatusOK, nil, nil)
	}
}
