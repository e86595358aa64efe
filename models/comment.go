package models

// Comment is a note left on a travel request. Rows are never removed;
// deleting a comment clears Active.
type Comment struct {
	Model
	RequestID uint    `json:"request_id" gorm:"not null;index"`
	UserID    uint    `json:"user_id" gorm:"not null;index"`
	Comment   string  `json:"comment" gorm:"type:text;not null"`
	Active    bool    `json:"active" gorm:"not null;default:true"`
	Author    *Author `json:"User,omitempty" gorm:"foreignKey:UserID"`
}

type CommentRequest struct {
	Comment string `json:"comment" binding:"required" conform:"trim"`
}
