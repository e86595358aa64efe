package db

import (
	"github.com/barefootnomad/api/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type AccommodationRepository interface {
	ListLocations() ([]models.Location, error)
	FindLocationByID(id uint) (*models.Location, error)
	ListAccommodations() ([]models.Accommodation, error)
	FindAccommodationByID(id uint) (*models.Accommodation, error)
	CreateAccommodation(accommodation *models.Accommodation) (*models.Accommodation, error)
}

type accommodationRepo struct {
	DB *gorm.DB
}

func NewAccommodationRepo(db *GormDB) AccommodationRepository {
	return &accommodationRepo{db.DB}
}

func (a *accommodationRepo) ListLocations() ([]models.Location, error) {
	locations := []models.Location{}
	if err := a.DB.Order("id ASC").Find(&locations).Error; err != nil {
		return nil, errors.Wrap(err, "list locations")
	}
	return locations, nil
}

func (a *accommodationRepo) FindLocationByID(id uint) (*models.Location, error) {
	var location models.Location
	if err := a.DB.Where("id = ?", id).First(&location).Error; err != nil {
		return nil, errors.Wrapf(err, "find location %d", id)
	}
	return &location, nil
}

func (a *accommodationRepo) ListAccommodations() ([]models.Accommodation, error) {
	accommodations := []models.Accommodation{}
	if err := a.DB.Preload("Location").Order("id ASC").Find(&accommodations).Error; err != nil {
		return nil, errors.Wrap(err, "list accommodations")
	}
	return accommodations, nil
}

func (a *accommodationRepo) FindAccommodationByID(id uint) (*models.Accommodation, error) {
	var accommodation models.Accommodation
	if err := a.DB.Preload("Location").Where("id = ?", id).First(&accommodation).Error; err != nil {
		return nil, errors.Wrapf(err, "find accommodation %d", id)
	}
	return &accommodation, nil
}

func (a *accommodationRepo) CreateAccommodation(accommodation *models.Accommodation) (*models.Accommodation, error) {
	if err := a.DB.Omit("Location").Create(accommodation).Error; err != nil {
		return nil, errors.Wrap(err, "create accommodation")
	}
	return a.FindAccommodationByID(accommodation.ID)
}
