package server

import (
	"net/http"

	"github.com/barefootnomad/api/models"
	"github.com/barefootnomad/api/server/response"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleListLocations() gin.HandlerFunc {
	return func(c *gin.Context) {
		locations, apiErr := s.AccommodationService.ListLocations()
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "locations", http.StatusOK, locations, nil)
	}
}

func (s *Server) handleListAccommodations() gin.HandlerFunc {
	return func(c *gin.Context) {
		accommodations, apiErr := s.AccommodationService.ListAccommodations()
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "accommodations", http.StatusOK, accommodations, nil)
	}
}

func (s *Server) handleGetAccommodation() gin.HandlerFunc {
	return func(c *gin.Context) {
		accommodation, apiErr := s.AccommodationService.GetAccommodation(c.Param("id"))
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "accommodation", http.StatusOK, accommodation, nil)
	}
}

func (s *Server) handleCreateAccommodation() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body models.CreateAccommodationRequest
		if err := decode(c, &body); err != nil {
			response.HandleErrors(c, err)
			return
		}

		accommodation, apiErr := s.AccommodationService.CreateAccommodation(callerFrom(c), &body)
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "accommodation created", http.StatusCreated, accommodation, nil)
	}
}
