package services

import (
	"errors"
	"strconv"

	"github.com/barefootnomad/api/db"
	apiError "github.com/barefootnomad/api/errors"
	"github.com/barefootnomad/api/models"
	"gorm.io/gorm"
)

type AccommodationService interface {
	ListLocations() ([]models.Location, *apiError.Error)
	ListAccommodations() ([]models.Accommodation, *apiError.Error)
	GetAccommodation(id string) (*models.Accommodation, *apiError.Error)
	CreateAccommodation(caller models.Caller, req *models.CreateAccommodationRequest) (*models.Accommodation, *apiError.Error)
}

type accommodationService struct {
	accommodationRepo db.AccommodationRepository
}

func NewAccommodationService(accommodationRepo db.AccommodationRepository) AccommodationService {
	return &accommodationService{accommodationRepo: accommodationRepo}
}

func (s *accommodationService) ListLocations() ([]models.Location, *apiError.Error) {
	locations, err := s.accommodationRepo.ListLocations()
	if err != nil {
		return nil, apiError.InternalError(err)
	}
	return locations, nil
}

func (s *accommodationService) ListAccommodations() ([]models.Accommodation, *apiError.Error) {
	accommodations, err := s.accommodationRepo.ListAccommodations()
	if err != nil {
		return nil, apiError.InternalError(err)
	}
	return accommodations, nil
}

func (s *accommodationService) GetAccommodation(id string) (*models.Accommodation, *apiError.Error) {
	accommodationID, err := strconv.ParseUint(id, 10, 64)
	if err != nil || accommodationID == 0 {
		return nil, apiError.ValidationError("Invalid accommodation id")
	}
	accommodation, err := s.accommodationRepo.FindAccommodationByID(uint(accommodationID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apiError.NotFoundError("Accommodation not found")
	}
	if err != nil {
		return nil, apiError.InternalError(err)
	}
	return accommodation, nil
}

// CreateAccommodation is restricted to travel admins and above.
func (s *accommodationService) CreateAccommodation(caller models.Caller, req *models.CreateAccommodationRequest) (*models.Accommodation, *apiError.Error) {
	if !caller.Role.AtLeast(models.RoleTravelAdmin) {
		return nil, apiError.ErrUnauthorized
	}
	if _, err := s.accommodationRepo.FindLocationByID(req.LocationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.NotFoundError("Location not found")
		}
		return nil, apiError.InternalError(err)
	}

	accommodation, err := s.accommodationRepo.CreateAccommodation(&models.Accommodation{
		AccommodationName: req.AccommodationName,
		LocationID:        req.LocationID,
	})
	if err != nil {
		return nil, apiError.GetUniqueContraintError(err)
	}
	return accommodation, nil
}
