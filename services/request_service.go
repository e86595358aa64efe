package services

import (
	"context"
	"errors"
	"log"

	"github.com/barefootnomad/api/db"
	apiError "github.com/barefootnomad/api/errors"
	"github.com/barefootnomad/api/events"
	"github.com/barefootnomad/api/models"
	"gorm.io/gorm"
)

type RequestService interface {
	CreateRequest(userID uint, req *models.CreateTravelRequest) (*models.Request, *apiError.Error)
	GetRequest(requestID string, caller models.Caller) (*models.Request, *apiError.Error)
	ListMyRequests(userID uint) ([]models.Request, *apiError.Error)
	ListPendingRequests(caller models.Caller) ([]models.Request, *apiError.Error)
	DecideRequest(ctx context.Context, requestID string, caller models.Caller, status models.RequestStatus) (*models.Request, *apiError.Error)
}

type requestService struct {
	requestRepo       db.RequestRepository
	accommodationRepo db.AccommodationRepository
	bus               events.Bus
}

func NewRequestService(requestRepo db.RequestRepository, accommodationRepo db.AccommodationRepository, bus events.Bus) RequestService {
	return &requestService{
		requestRepo:       requestRepo,
		accommodationRepo: accommodationRepo,
		bus:               bus,
	}
}

func (s *requestService) CreateRequest(userID uint, req *models.CreateTravelRequest) (*models.Request, *apiError.Error) {
	if req.ReturnDate != nil && req.ReturnDate.Before(req.TravelDate) {
		return nil, apiError.ValidationError("return_date must be after travel_date")
	}
	if req.AccommodationID != nil {
		_, err := s.accommodationRepo.FindAccommodationByID(*req.AccommodationID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.NotFoundError("Accommodation not found")
		}
		if err != nil {
			return nil, apiError.InternalError(err)
		}
	}

	request, err := s.requestRepo.CreateRequest(&models.Request{
		UserID:          userID,
		Origin:          req.Origin,
		Destination:     req.Destination,
		TravelDate:      req.TravelDate,
		ReturnDate:      req.ReturnDate,
		Reason:          req.Reason,
		AccommodationID: req.AccommodationID,
		Status:          models.RequestPending,
	})
	if err != nil {
		log.Printf("CreateRequest error: %v", err)
		return nil, apiError.InternalError(err)
	}
	return request, nil
}

func (s *requestService) GetRequest(requestID string, caller models.Caller) (*models.Request, *apiError.Error) {
	id, ok := parseID(requestID)
	if !ok {
		return nil, apiError.ErrInvalidID
	}
	request, err := s.requestRepo.FindRequestByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apiError.ErrRequestNotFound
	}
	if err != nil {
		return nil, apiError.InternalError(err)
	}
	if !caller.OwnsOrElevated(request.UserID) {
		return nil, apiError.ErrUnauthorized
	}
	return request, nil
}

func (s *requestService) ListMyRequests(userID uint) ([]models.Request, *apiError.Error) {
	requests, err := s.requestRepo.ListRequestsByUser(userID)
	if err != nil {
		return nil, apiError.InternalError(err)
	}
	return requests, nil
}

func (s *requestService) ListPendingRequests(caller models.Caller) ([]models.Request, *apiError.Error) {
	if !caller.Role.IsElevated() {
		return nil, apiError.ErrUnauthorized
	}
	requests, err := s.requestRepo.ListPendingRequests()
	if err != nil {
		return nil, apiError.InternalError(err)
	}
	return requests, nil
}

// DecideRequest approves or rejects a pending request.
func (s *requestService) DecideRequest(ctx context.Context, requestID string, caller models.Caller, status models.RequestStatus) (*models.Request, *apiError.Error) {
	if status != models.RequestApproved && status != models.RequestRejected {
		return nil, apiError.ValidationError("unknown request status")
	}
	if !caller.Role.IsElevated() {
		return nil, apiError.ErrUnauthorized
	}
	id, ok := parseID(requestID)
	if !ok {
		return nil, apiError.ErrInvalidID
	}
	if _, err := s.requestRepo.FindRequestByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrRequestNotFound
		}
		return nil, apiError.InternalError(err)
	}

	changed, err := s.requestRepo.UpdateRequestStatus(id, models.RequestPending, status, caller.ID)
	if err != nil {
		return nil, apiError.InternalError(err)
	}
	if !changed {
		return nil, apiError.ConflictError("Request is no longer pending")
	}

	request, err := s.requestRepo.FindRequestByID(id)
	if err != nil {
		return nil, apiError.InternalError(err)
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.Event{
			Name:    events.EventRequestStatusChanged,
			Payload: events.RequestStatusEvent{Request: *request, Status: status, ManagerID: caller.ID},
		})
	}
	return request, nil
}
