package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ImportRun keeps the outcome of an attraction import for later inspection.
type ImportRun struct {
	gorm.Model
	UserID   uint           `json:"userID" gorm:"not null;index"`
	Format   string         `json:"format" gorm:"type:varchar(10)"` // json, csv, xml
	Total    int            `json:"total"`
	Imported int            `json:"imported"`
	Skipped  int            `json:"skipped"`
	Errors   datatypes.JSON `json:"errors"` // array of per-item error strings
}
