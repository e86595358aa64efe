package db

import (
	"github.com/barefootnomad/api/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	ListNotifications(userID uint) ([]models.Notification, error)
	MarkAsRead(id, userID uint) error
}

type notificationRepo struct {
	DB *gorm.DB
}

func NewNotificationRepo(db *GormDB) NotificationRepository {
	return &notificationRepo{db.DB}
}

func (n *notificationRepo) CreateNotification(notification *models.Notification) error {
	if err := n.DB.Create(notification).Error; err != nil {
		return errors.Wrap(err, "create notification")
	}
	return nil
}

func (n *notificationRepo) ListNotifications(userID uint) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := n.DB.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, errors.Wrap(err, "list notifications")
	}
	return notifications, nil
}

// MarkAsRead only touches notifications addressed to userID; anything else
// is reported as not found.
func (n *notificationRepo) MarkAsRead(id, userID uint) error {
	result := n.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return errors.Wrap(result.Error, "mark notification read")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(gorm.ErrRecordNotFound, "mark notification read")
	}
	return nil
}
