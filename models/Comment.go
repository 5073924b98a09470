package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment lives in MongoDB. Replies are embedded and append-only: a reply is
// never edited or removed once pushed.
type Comment struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AttractionID uint               `json:"attractionID" bson:"attractionId"`
	AuthorID     uint               `json:"authorID" bson:"authorId"`
	AuthorName   string             `json:"authorName" bson:"authorName"`
	Text         string             `json:"text" bson:"text"`
	Replies      []CommentReply     `json:"replies" bson:"replies"`
	Metadata     CommentMetadata    `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CommentReply struct {
	AuthorID uint      `json:"authorID" bson:"authorId"`
	Text     string    `json:"text" bson:"text"`
	PostedAt time.Time `json:"postedAt" bson:"postedAt"`
}

type CommentMetadata struct {
	Language string `json:"language,omitempty" bson:"language,omitempty"`
	Device   string `json:"device,omitempty" bson:"device,omitempty"`
}
