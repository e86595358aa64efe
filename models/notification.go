package models

const (
	NotificationNewComment    = "new_comment"
	NotificationRequestStatus = "request_status"
)

// Notification represents notifications sent to users
type Notification struct {
	Model
	UserID    uint   `json:"user_id" gorm:"not null;index"`
	SenderID  uint   `json:"sender_id"`
	RequestID uint   `json:"request_id"`
	Type      string `json:"type" gorm:"type:varchar(32)"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read" gorm:"default:false"`
}
