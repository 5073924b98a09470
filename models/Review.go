package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	AttractionID uint       `json:"attractionID" gorm:"not null;uniqueIndex:idx_reviews_attraction_author;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AuthorID     uint       `json:"authorID" gorm:"not null;uniqueIndex:idx_reviews_attraction_author;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Attraction   Attraction `json:"attraction,omitempty" gorm:"foreignKey:AttractionID"`
	Author       User       `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Rating       int        `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Body         string     `json:"body" gorm:"type:text"`
}
