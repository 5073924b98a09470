package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Photo is the metadata record for an uploaded file; the bytes themselves
// live on disk under StoragePath.
type Photo struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AttractionID uint               `json:"attractionID" bson:"attractionId"`
	UploaderID   uint               `json:"uploaderID" bson:"uploaderId"`
	Filename     string             `json:"filename" bson:"filename"`
	OriginalName string             `json:"originalName" bson:"originalName"`
	Title        string             `json:"title,omitempty" bson:"title,omitempty"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	StoragePath  string             `json:"-" bson:"storagePath"`
	MimeType     string             `json:"mimeType" bson:"mimeType"`
	SizeBytes    int64              `json:"sizeBytes" bson:"sizeBytes"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}
