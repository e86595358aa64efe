package server

import (
	"fmt"
	"net/http"

	errs "github.com/barefootnomad/api/errors"
	"github.com/barefootnomad/api/events"
	"github.com/barefootnomad/api/models"
	"github.com/barefootnomad/api/server/response"
	"github.com/gin-gonic/gin"
)

// bindComment reads {comment}; decode trims it, so blank text fails the
// required check.
func bindComment(c *gin.Context) (string, *errs.Error) {
	var body models.CommentRequest
	if err := decode(c, &body); err != nil {
		return "", err
	}
	return body.Comment, nil
}

func (s *Server) handleCreateComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		text, err := bindComment(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		caller := callerFrom(c)
		comment, apiErr := s.CommentService.CreateComment(c.Request.Context(), c.Param("request_id"), caller, text)
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		// Same shape as the new_comment payload.
		response.JSON(c, "comment posted", http.StatusOK, events.CommentEvent{Comment: *comment, From: caller.ID}, nil)
	}
}

func (s *Server) handleListComments() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, comments, apiErr := s.CommentService.ListComments(c.Param("request_id"), callerFrom(c))
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, fmt.Sprintf("comments from the request with id :%d", requestID), http.StatusOK, comments, nil)
	}
}

func (s *Server) handleEditComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		text, err := bindComment(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		updated, apiErr := s.CommentService.EditComment(c.Param("request_id"), c.Param("comment_id"), c.GetUint("userID"), text)
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "comment": updated})
	}
}

func (s *Server) handleDeleteComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiErr := s.CommentService.DeleteComment(c.Param("request_id"), c.Param("comment_id"), c.GetUint("userID")); apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "comment deleted", http.StatusOK, nil, nil)
	}
}
