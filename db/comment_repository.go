package db

import (
	"github.com/barefootnomad/api/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CommentRepository interface {
	CreateComment(comment *models.Comment) (*models.Comment, error)
	ListActiveComments(requestID uint) ([]models.Comment, error)
	FindCommentByID(id uint) (*models.Comment, error)
	UpdateCommentText(id uint, text string) (*models.Comment, error)
	DeactivateComment(id uint) error
}

type commentRepo struct {
	DB *gorm.DB
}

func NewCommentRepo(db *GormDB) CommentRepository {
	return &commentRepo{db.DB}
}

func (c *commentRepo) CreateComment(comment *models.Comment) (*models.Comment, error) {
	comment.Active = true
	if err := c.DB.Omit("Author").Create(comment).Error; err != nil {
		return nil, errors.Wrap(err, "create comment")
	}
	return comment, nil
}

// ListActiveComments returns the request's active comments with their
// author, newest first. Comments whose author row is gone are skipped.
func (c *commentRepo) ListActiveComments(requestID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := c.DB.InnerJoins("Author").
		Where("comments.request_id = ? AND comments.active = ?", requestID, true).
		Order("comments.created_at DESC, comments.id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list comments of request %d", requestID)
	}
	return comments, nil
}

func (c *commentRepo) FindCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := c.DB.Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, errors.Wrapf(err, "find comment %d", id)
	}
	return &comment, nil
}

func (c *commentRepo) UpdateCommentText(id uint, text string) (*models.Comment, error) {
	result := c.DB.Model(&models.Comment{Model: models.Model{ID: id}}).Update("comment", text)
	if result.Error != nil {
		return nil, errors.Wrapf(result.Error, "update comment %d", id)
	}
	if result.RowsAffected == 0 {
		return nil, errors.Wrapf(gorm.ErrRecordNotFound, "update comment %d", id)
	}
	return c.FindCommentByID(id)
}

// DeactivateComment hides a comment from listings. The row is kept.
func (c *commentRepo) DeactivateComment(id uint) error {
	result := c.DB.Model(&models.Comment{Model: models.Model{ID: id}}).Update("active", false)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "deactivate comment %d", id)
	}
	if result.RowsAffected == 0 {
		return errors.Wrapf(gorm.ErrRecordNotFound, "deactivate comment %d", id)
	}
	return nil
}
