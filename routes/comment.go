package routes

import (
	"context"
	"errors"
	"time"

	"tourism-catalog-server/models"
	"tourism-catalog-server/storage"
	"tourism-catalog-server/utils"

	"github.com/kataras/iris/v12"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

var bgCtx = context.Background()

type CreateCommentInput struct {
	AttractionID uint                   `json:"attractionID" validate:"required"`
	Text         string                 `json:"text" validate:"required,max=500"`
	Metadata     models.CommentMetadata `json:"metadata"`
}

type UpdateCommentInput struct {
	Text string `json:"text" validate:"required,max=500"`
}

type AddReplyInput struct {
	Text string `json:"text" validate:"required,max=500"`
}

func CreateComment(ctx iris.Context) {
	var input CreateCommentInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var attraction models.Attraction
	if err := storage.DB.First(&attraction, input.AttractionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	now := time.Now()
	comment := models.Comment{
		AttractionID: input.AttractionID,
		AuthorID:     utils.CurrentUserID(ctx),
		AuthorName:   utils.CurrentUserName(ctx),
		Text:         input.Text,
		Replies:      []models.CommentReply{},
		Metadata:     input.Metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, insertErr := storage.Comments.InsertOne(bgCtx, comment)
	if insertErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	comment.ID = res.InsertedID.(primitive.ObjectID)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(comment)
}

// GetComments lists comments, optionally filtered by attraction or author,
// newest first.
func GetComments(ctx iris.Context) {
	filter := bson.M{}
	if attractionID := ctx.URLParamIntDefault("attractionId", 0); attractionID > 0 {
		filter["attractionId"] = uint(attractionID)
	}
	if userID := ctx.URLParamIntDefault("userId", 0); userID > 0 {
		filter["authorId"] = uint(userID)
	}

	cursor, err := storage.Comments.Find(bgCtx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	comments := []models.Comment{}
	if err := cursor.All(bgCtx, &comments); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(comments)
}

func GetComment(ctx iris.Context) {
	comment, ok := findCommentByParam(ctx)
	if !ok {
		return
	}
	ctx.JSON(comment)
}

func CountCommentsByAttraction(ctx iris.Context) {
	attractionID := ctx.Params().GetUintDefault("attractionId", 0)

	count, err := storage.Comments.CountDocuments(bgCtx, bson.M{"attractionId": attractionID})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"attractionID": attractionID,
		"count":        count,
	})
}

func UpdateComment(ctx iris.Context) {
	comment, ok := findCommentByParam(ctx)
	if !ok {
		return
	}

	if comment.AuthorID != utils.CurrentUserID(ctx) {
		utils.CreateForbidden(ctx)
		return
	}

	var input UpdateCommentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	comment.Text = input.Text
	comment.UpdatedAt = time.Now()

	_, err := storage.Comments.UpdateByID(bgCtx, comment.ID, bson.M{
		"$set": bson.M{
			"text":      comment.Text,
			"updatedAt": comment.UpdatedAt,
		},
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(comment)
}

// canDeleteComment decides comment deletion from the actor's stored role
// alone: ADMIN may delete any comment, everyone else (the author included)
// may delete none.
func canDeleteComment(role string) bool {
	return role == models.RoleAdmin
}

// DeleteComment requires the actor's stored role to be ADMIN; authorship is
// irrelevant here even though edits are owner-only.
func DeleteComment(ctx iris.Context) {
	comment, ok := findCommentByParam(ctx)
	if !ok {
		return
	}

	var user models.User
	if err := storage.DB.Select("id, role").First(&user, utils.CurrentUserID(ctx)).Error; err != nil {
		utils.CreateForbidden(ctx)
		return
	}
	if !canDeleteComment(user.Role) {
		utils.CreateForbidden(ctx)
		return
	}

	if _, err := storage.Comments.DeleteOne(bgCtx, bson.M{"_id": comment.ID}); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

// AddReply appends to the comment's reply list. Replies are append-only;
// there is no edit or delete for an individual reply.
func AddReply(ctx iris.Context) {
	comment, ok := findCommentByParam(ctx)
	if !ok {
		return
	}

	var input AddReplyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	reply := models.CommentReply{
		AuthorID: utils.CurrentUserID(ctx),
		Text:     input.Text,
		PostedAt: time.Now(),
	}

	_, err := storage.Comments.UpdateByID(bgCtx, comment.ID, bson.M{
		"$push": bson.M{"replies": reply},
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	comment.Replies = append(comment.Replies, reply)
	ctx.JSON(comment)
}

// findCommentByParam resolves the {id} route parameter to a comment,
// answering 404 itself when the id is malformed or unknown.
func findCommentByParam(ctx iris.Context) (*models.Comment, bool) {
	objectID, err := primitive.ObjectIDFromHex(ctx.Params().GetString("id"))
	if err != nil {
		utils.CreateNotFound(ctx)
		return nil, false
	}

	var comment models.Comment
	findErr := storage.Comments.FindOne(bgCtx, bson.M{"_id": objectID}).Decode(&comment)
	if findErr != nil {
		if errors.Is(findErr, mongo.ErrNoDocuments) {
			utils.CreateNotFound(ctx)
			return nil, false
		}
		utils.CreateInternalServerError(ctx)
		return nil, false
	}

	return &comment, true
}
