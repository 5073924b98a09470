package routes

import (
	"errors"

	"tourism-catalog-server/models"
	"tourism-catalog-server/storage"
	"tourism-catalog-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

type CreateReviewInput struct {
	AttractionID uint   `json:"attractionID" validate:"required"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Body         string `json:"body" validate:"max=1000"`
}

type UpdateReviewInput struct {
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Body   *string `json:"body" validate:"omitempty,max=1000"`
}

func CreateReview(ctx iris.Context) {
	var input CreateReviewInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	userID := utils.CurrentUserID(ctx)

	var attraction models.Attraction
	if err := storage.DB.First(&attraction, input.AttractionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	var existing models.Review
	existsQuery := storage.DB.
		Where("attraction_id = ? AND author_id = ?", input.AttractionID, userID).
		Limit(1).Find(&existing)
	if existsQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if existsQuery.RowsAffected > 0 {
		utils.CreateConflict("You have already reviewed this attraction. Update your review instead.", ctx)
		return
	}

	review := models.Review{
		AttractionID: input.AttractionID,
		AuthorID:     userID,
		Rating:       input.Rating,
		Body:         input.Body,
	}

	if err := storage.DB.Create(&review).Error; err != nil {
		// the (attraction_id, author_id) unique index may win a create race
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.CreateConflict("You have already reviewed this attraction. Update your review instead.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(review)
}

func GetReviews(ctx iris.Context) {
	var reviews []models.Review
	if err := storage.DB.
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, login, email")
		}).
		Preload("Attraction", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, city, state")
		}).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(reviews)
}

func GetReview(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var review models.Review
	if err := storage.DB.
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, login, email")
		}).
		Preload("Attraction", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, city, state")
		}).
		First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(review)
}

func GetReviewsByAttraction(ctx iris.Context) {
	attractionID := ctx.Params().GetUintDefault("attractionId", 0)

	var reviews []models.Review
	if err := storage.DB.
		Preload("Author", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, login, email")
		}).
		Where("attraction_id = ?", attractionID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(reviews)
}

func GetReviewsByUser(ctx iris.Context) {
	userID := ctx.Params().GetUintDefault("userId", 0)

	var reviews []models.Review
	if err := storage.DB.
		Preload("Attraction", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, city, state")
		}).
		Where("author_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(reviews)
}

// GetAverageRating returns the mean rating for an attraction, 0 when it has
// no reviews.
func GetAverageRating(ctx iris.Context) {
	attractionID := ctx.Params().GetUintDefault("attractionId", 0)

	var average float64
	if err := storage.DB.Model(&models.Review{}).
		Where("attraction_id = ?", attractionID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&average).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"attractionID":  attractionID,
		"averageRating": average,
	})
}

func UpdateReview(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var review models.Review
	if err := storage.DB.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if review.AuthorID != utils.CurrentUserID(ctx) {
		utils.CreateForbidden(ctx)
		return
	}

	var input UpdateReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Rating != nil {
		review.Rating = *input.Rating
	}
	if input.Body != nil {
		review.Body = *input.Body
	}

	if err := storage.DB.Save(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(review)
}

func DeleteReview(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var review models.Review
	if err := storage.DB.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if review.AuthorID != utils.CurrentUserID(ctx) {
		utils.CreateForbidden(ctx)
		return
	}

	// hard delete so the author can review this attraction again later
	if err := storage.DB.Unscoped().Delete(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}
