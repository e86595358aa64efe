package db

import (
	"log"
	"strings"

	"github.com/barefootnomad/api/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	IsEmailExist(email string) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	AddToBlackList(blacklist *models.Blacklist) error
	IsTokenInBlacklist(token string) bool
	UpdatePassword(userID uint, hashedPassword string) error
	UpsertUserImage(userID uint, filepath string) error
	FindRoleByName(name string) (*models.Role, error)
	FindRoleByLevel(level models.RoleLevel) (*models.Role, error)
	UpdateUserRole(userID uint, role *models.Role) error
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}

	// Users without a role start as requesters.
	if user.Role.ID == [16]byte{} && user.RoleID == [16]byte{} {
		role, err := a.FindRoleByLevel(models.RoleRequester)
		if err != nil {
			return nil, errors.Wrap(err, "default role")
		}
		user.RoleID = role.ID
		user.Role = *role
	}

	if err := a.DB.Omit("Role").Create(user).Error; err != nil {
		log.Printf("CreateUser error: %v", err)
		return nil, errors.Wrap(err, "create user")
	}
	return a.FindUserByID(user.ID)
}

func (a *authRepo) IsEmailExist(email string) error {
	var count int64
	err := a.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return errors.New("email already in use")
	}
	return nil
}

func (a *authRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := a.DB.Preload("Role").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, errors.Wrap(err, "find user by email")
	}
	return &user, nil
}

func (a *authRepo) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	err := a.DB.Preload("Role").Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, errors.Wrap(err, "find user by id")
	}
	return &user, nil
}

func (a *authRepo) AddToBlackList(blacklist *models.Blacklist) error {
	blacklist.Token = normalizeToken(blacklist.Token)
	return a.DB.Where(models.Blacklist{Token: blacklist.Token}).FirstOrCreate(blacklist).Error
}

func normalizeToken(token string) string {
	return strings.TrimSpace(token)
}

func (a *authRepo) IsTokenInBlacklist(token string) bool {
	var count int64
	a.DB.Model(&models.Blacklist{}).Where("token = ?", normalizeToken(token)).Count(&count)
	return count > 0
}

func (a *authRepo) UpdatePassword(userID uint, hashedPassword string) error {
	result := a.DB.Model(&models.User{}).Where("id = ?", userID).Update("hashed_password", hashedPassword)
	if result.Error != nil {
		return errors.Wrap(result.Error, "update password")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *authRepo) UpsertUserImage(userID uint, filepath string) error {
	result := a.DB.Model(&models.User{}).Where("id = ?", userID).Update("image_url", filepath)
	if result.Error != nil {
		log.Printf("Error updating user image url: %v", result.Error)
		return errors.Wrap(result.Error, "update image url")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindRoleByName fetches a role by its name from the database.
func (a *authRepo) FindRoleByName(name string) (*models.Role, error) {
	var role models.Role
	if err := a.DB.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, errors.Wrap(err, "find role by name")
	}
	return &role, nil
}

func (a *authRepo) FindRoleByLevel(level models.RoleLevel) (*models.Role, error) {
	var role models.Role
	if err := a.DB.Where("value = ?", level).First(&role).Error; err != nil {
		return nil, errors.Wrap(err, "find role by level")
	}
	return &role, nil
}

func (a *authRepo) UpdateUserRole(userID uint, role *models.Role) error {
	result := a.DB.Model(&models.User{}).Where("id = ?", userID).Update("role_id", role.ID)
	if result.Error != nil {
		return errors.Wrap(result.Error, "update user role")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
