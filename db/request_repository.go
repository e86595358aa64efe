package db

import (
	"github.com/barefootnomad/api/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// RequestRepository covers travel requests. FindRequestByID and
// ConfirmRequestOwner are what the comment workflow relies on.
type RequestRepository interface {
	FindRequestByID(id uint) (*models.Request, error)
	ConfirmRequestOwner(requestID, userID uint) (bool, error)
	CreateRequest(request *models.Request) (*models.Request, error)
	ListRequestsByUser(userID uint) ([]models.Request, error)
	ListPendingRequests() ([]models.Request, error)
	UpdateRequestStatus(id uint, from, to models.RequestStatus, managerID uint) (bool, error)
}

type requestRepo struct {
	DB *gorm.DB
}

func NewRequestRepo(db *GormDB) RequestRepository {
	return &requestRepo{db.DB}
}

func (r *requestRepo) FindRequestByID(id uint) (*models.Request, error) {
	var request models.Request
	if err := r.DB.Where("id = ?", id).First(&request).Error; err != nil {
		return nil, errors.Wrapf(err, "find request %d", id)
	}
	return &request, nil
}

// ConfirmRequestOwner is false when the request is missing as well.
func (r *requestRepo) ConfirmRequestOwner(requestID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&models.Request{}).
		Where("id = ? AND user_id = ?", requestID, userID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "confirm request owner")
	}
	return count > 0, nil
}

func (r *requestRepo) CreateRequest(request *models.Request) (*models.Request, error) {
	if request.Status == "" {
		request.Status = models.RequestPending
	}
	if err := r.DB.Create(request).Error; err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	return request, nil
}

func (r *requestRepo) ListRequestsByUser(userID uint) ([]models.Request, error) {
	var requests []models.Request
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&requests).Error
	if err != nil {
		return nil, errors.Wrap(err, "list requests by user")
	}
	return requests, nil
}

func (r *requestRepo) ListPendingRequests() ([]models.Request, error) {
	var requests []models.Request
	err := r.DB.Where("status = ?", models.RequestPending).
		Order("created_at DESC, id DESC").
		Find(&requests).Error
	if err != nil {
		return nil, errors.Wrap(err, "list pending requests")
	}
	return requests, nil
}

// UpdateRequestStatus moves a request from one status to another. It
// reports false when the request was not in the from status.
func (r *requestRepo) UpdateRequestStatus(id uint, from, to models.RequestStatus, managerID uint) (bool, error) {
	result := r.DB.Model(&models.Request{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "manager_id": managerID})
	if result.Error != nil {
		return false, errors.Wrap(result.Error, "update request status")
	}
	return result.RowsAffected > 0, nil
}
