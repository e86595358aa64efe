package server

import (
	"net/http"

	"github.com/barefootnomad/api/models"
	"github.com/barefootnomad/api/server/response"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleCreateRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body models.CreateTravelRequest
		if err := decode(c, &body); err != nil {
			response.HandleErrors(c, err)
			return
		}

		request, apiErr := s.RequestService.CreateRequest(c.GetUint("userID"), &body)
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "request created", http.StatusCreated, request, nil)
	}
}

func (s *Server) handleListMyRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		requests, apiErr := s.RequestService.ListMyRequests(c.GetUint("userID"))
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "requests", http.StatusOK, requests, nil)
	}
}

func (s *Server) handleGetRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		request, apiErr := s.RequestService.GetRequest(c.Param("request_id"), callerFrom(c))
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "request", http.StatusOK, request, nil)
	}
}

func (s *Server) handleListPendingRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		requests, apiErr := s.RequestService.ListPendingRequests(callerFrom(c))
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "pending requests", http.StatusOK, requests, nil)
	}
}

func (s *Server) handleApproveRequest() gin.HandlerFunc {
	return s.decideRequest(models.RequestApproved, "request approved")
}

func (s *Server) handleRejectRequest() gin.HandlerFunc {
	return s.decideRequest(models.RequestRejected, "request rejected")
}

func (s *Server) decideRequest(status models.RequestStatus, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		request, apiErr := s.RequestService.DecideRequest(c.Request.Context(), c.Param("request_id"), callerFrom(c), status)
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, message, http.StatusOK, request, nil)
	}
}
