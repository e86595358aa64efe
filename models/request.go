package models

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// Request is a travel request submitted by a user.
type Request struct {
	Model
	UserID          uint          `json:"user_id" gorm:"not null;index"`
	Origin          string        `json:"origin" gorm:"not null"`
	Destination     string        `json:"destination" gorm:"not null"`
	TravelDate      time.Time     `json:"travel_date"`
	ReturnDate      *time.Time    `json:"return_date,omitempty"`
	Reason          string        `json:"reason"`
	AccommodationID *uint         `json:"accommodation_id,omitempty"`
	Status          RequestStatus `json:"status" gorm:"type:varchar(16);default:'pending';index"`
	ManagerID       *uint         `json:"manager_id,omitempty"`
}

type CreateTravelRequest struct {
	Origin          string     `json:"origin" binding:"required" conform:"trim"`
	Destination     string     `json:"destination" binding:"required" conform:"trim"`
	TravelDate      time.Time  `json:"travel_date" binding:"required"`
	ReturnDate      *time.Time `json:"return_date"`
	Reason          string     `json:"reason" conform:"trim"`
	AccommodationID *uint      `json:"accommodation_id"`
}
