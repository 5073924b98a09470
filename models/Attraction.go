package models

import "gorm.io/gorm"

type Attraction struct {
	gorm.Model
	Name        string    `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_attractions_name_city"`
	Description string    `json:"description" gorm:"type:text"`
	City        string    `json:"city" gorm:"type:varchar(100);not null;uniqueIndex:idx_attractions_name_city;index"`
	State       string    `json:"state" gorm:"type:varchar(100);index"`
	Country     string    `json:"country" gorm:"type:varchar(100)"`
	Latitude    float64   `json:"latitude" gorm:"type:decimal(10,7)"`
	Longitude   float64   `json:"longitude" gorm:"type:decimal(10,7)"`
	Address     string    `json:"address" gorm:"type:varchar(500)"`
	CreatorID   uint      `json:"creatorID" gorm:"not null;index"`
	Creator     User      `json:"creator,omitempty" gorm:"foreignKey:CreatorID;references:ID"`
	Reviews     []Review  `json:"reviews,omitempty" gorm:"foreignKey:AttractionID;references:ID;constraint:OnDelete:CASCADE"`
	Lodgings    []Lodging `json:"lodgings,omitempty" gorm:"foreignKey:AttractionID;references:ID;constraint:OnDelete:CASCADE"`
}
