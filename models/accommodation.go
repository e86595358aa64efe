package models

// Location is a city accommodations belong to.
type Location struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"uniqueIndex;not null" json:"name"`
	Country string `json:"country"`
}

type Accommodation struct {
	Model
	AccommodationName string   `gorm:"uniqueIndex;not null" json:"accommodation_name"`
	LocationID        uint     `gorm:"not null;index" json:"location"`
	Location          Location `gorm:"foreignKey:LocationID" json:"location_detail"`
}

type CreateAccommodationRequest struct {
	AccommodationName string `json:"accommodation_name" binding:"required,min=2" conform:"trim"`
	LocationID        uint   `json:"location" binding:"required,gt=0"`
}
