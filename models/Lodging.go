package models

import "gorm.io/gorm"

const (
	LodgingHotel  = "hotel"
	LodgingInn    = "inn"
	LodgingHostel = "hostel"
)

type Lodging struct {
	gorm.Model
	AttractionID uint       `json:"attractionID" gorm:"not null;index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Attraction   Attraction `json:"attraction,omitempty" gorm:"foreignKey:AttractionID"`
	Name         string     `json:"name" gorm:"type:varchar(255);not null"`
	Address      string     `json:"address" gorm:"type:varchar(500);not null"`
	Phone        string     `json:"phone" gorm:"type:varchar(20)"`
	AvgPrice     *float64   `json:"avgPrice" gorm:"type:decimal(10,2)"`
	Kind         string     `json:"kind" gorm:"type:varchar(20);not null;index"` // hotel, inn, hostel
	BookingLink  string     `json:"bookingLink" gorm:"type:varchar(500)"`
}
