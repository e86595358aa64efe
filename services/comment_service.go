package services

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/barefootnomad/api/db"
	apiError "github.com/barefootnomad/api/errors"
	"github.com/barefootnomad/api/events"
	"github.com/barefootnomad/api/models"
	"gorm.io/gorm"
)

// CommentService is the comment workflow on travel requests.
type CommentService interface {
	CreateComment(ctx context.Context, requestID string, caller models.Caller, text string) (*models.Comment, *apiError.Error)
	ListComments(requestID string, caller models.Caller) (uint, []models.Comment, *apiError.Error)
	EditComment(requestID, commentID string, callerID uint, text string) (string, *apiError.Error)
	DeleteComment(requestID, commentID string, callerID uint) *apiError.Error
}

type commentService struct {
	requestRepo db.RequestRepository
	commentRepo db.CommentRepository
	bus         events.Bus
}

func NewCommentService(requestRepo db.RequestRepository, commentRepo db.CommentRepository, bus events.Bus) CommentService {
	return &commentService{
		requestRepo: requestRepo,
		commentRepo: commentRepo,
		bus:         bus,
	}
}

// parseID accepts positive base-10 integers only.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (s *commentService) findRequest(id uint) (*models.Request, *apiError.Error) {
	request, err := s.requestRepo.FindRequestByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrRequestNotFound
		}
		return nil, apiError.InternalError(err)
	}
	return request, nil
}

func (s *commentService) CreateComment(ctx context.Context, requestID string, caller models.Caller, text string) (*models.Comment, *apiError.Error) {
	id, ok := parseID(requestID)
	if !ok {
		return nil, apiError.ErrInvalidID
	}
	request, apiErr := s.findRequest(id)
	if apiErr != nil {
		return nil, apiErr
	}
	if !caller.OwnsOrElevated(request.UserID) {
		return nil, apiError.ErrUnauthorized
	}

	comment, err := s.commentRepo.CreateComment(&models.Comment{
		RequestID: id,
		UserID:    caller.ID,
		Comment:   strings.ToLower(text),
	})
	if err != nil {
		return nil, apiError.InternalError(err)
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.Event{
			Name:    events.EventNewComment,
			Payload: events.CommentEvent{Comment: *comment, From: caller.ID},
		})
	}
	return comment, nil
}

// ListComments returns the parsed request id with the active comments. A
// malformed id cannot match a request, so it is reported as not found.
func (s *commentService) ListComments(requestID string, caller models.Caller) (uint, []models.Comment, *apiError.Error) {
	id, ok := parseID(requestID)
	if !ok {
		return 0, nil, apiError.ErrRequestNotFound
	}
	request, apiErr := s.findRequest(id)
	if apiErr != nil {
		return 0, nil, apiErr
	}
	if !caller.OwnsOrElevated(request.UserID) {
		return 0, nil, apiError.ErrUnauthorized
	}

	comments, err := s.commentRepo.ListActiveComments(id)
	if err != nil {
		return 0, nil, apiError.InternalError(err)
	}
	return id, comments, nil
}

// authorComment resolves both ids and checks that callerID wrote the
// comment. Elevated roles get no exemption here.
func (s *commentService) authorComment(requestID, commentID string, callerID uint) (*models.Comment, *apiError.Error) {
	rid, ok := parseID(requestID)
	if !ok {
		return nil, apiError.ErrInvalidID
	}
	cid, ok := parseID(commentID)
	if !ok {
		return nil, apiError.ErrInvalidID
	}
	if _, apiErr := s.findRequest(rid); apiErr != nil {
		return nil, apiErr
	}

	comment, err := s.commentRepo.FindCommentByID(cid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrCommentNotFound
		}
		return nil, apiError.InternalError(err)
	}
	if comment.RequestID != rid {
		return nil, apiError.ErrCommentNotFound
	}
	if comment.UserID != callerID {
		return nil, apiError.ErrUnauthorized
	}
	return comment, nil
}

func (s *commentService) EditComment(requestID, commentID string, callerID uint, text string) (string, *apiError.Error) {
	comment, apiErr := s.authorComment(requestID, commentID, callerID)
	if apiErr != nil {
		return "", apiErr
	}
	if _, err := s.commentRepo.UpdateCommentText(comment.ID, text); err != nil {
		return "", apiError.InternalError(err)
	}
	return text, nil
}

func (s *commentService) DeleteComment(requestID, commentID string, callerID uint) *apiError.Error {
	comment, apiErr := s.authorComment(requestID, commentID, callerID)
	if apiErr != nil {
		return apiErr
	}
	if err := s.commentRepo.DeactivateComment(comment.ID); err != nil {
		log.Printf("DeleteComment error: %v", err)
		return apiError.Wrap(err, "Error in database connection", http.StatusInternalServerError)
	}
	return nil
}
