package routes

import (
	"errors"

	"tourism-catalog-server/models"
	"tourism-catalog-server/storage"
	"tourism-catalog-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// Lodging routes carry no auth middleware: lodging data is open to any
// caller, unlike every sibling resource.

type CreateLodgingInput struct {
	AttractionID uint     `json:"attractionID" validate:"required"`
	Name         string   `json:"name" validate:"required,max=255"`
	Address      string   `json:"address" validate:"required,max=500"`
	Phone        string   `json:"phone" validate:"max=20"`
	AvgPrice     *float64 `json:"avgPrice" validate:"omitempty,min=0"`
	Kind         string   `json:"kind" validate:"required,oneof=hotel inn hostel"`
	BookingLink  string   `json:"bookingLink" validate:"max=500"`
}

type UpdateLodgingInput struct {
	AttractionID *uint    `json:"attractionID"`
	Name         *string  `json:"name" validate:"omitempty,max=255"`
	Address      *string  `json:"address" validate:"omitempty,max=500"`
	Phone        *string  `json:"phone" validate:"omitempty,max=20"`
	AvgPrice     *float64 `json:"avgPrice" validate:"omitempty,min=0"`
	Kind         *string  `json:"kind" validate:"omitempty,oneof=hotel inn hostel"`
	BookingLink  *string  `json:"bookingLink" validate:"omitempty,max=500"`
}

func CreateLodging(ctx iris.Context) {
	var input CreateLodgingInput
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

	lodging := models.Lodging{
		AttractionID: input.AttractionID,
		Name:         input.Name,
		Address:      input.Address,
		Phone:        input.Phone,
		AvgPrice:     input.AvgPrice,
		Kind:         input.Kind,
		BookingLink:  input.BookingLink,
	}

	if err := storage.DB.Create(&lodging).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(lodging)
}

// GetLodgings lists lodgings filtered by attraction, kind and an inclusive
// price range, ordered by name.
func GetLodgings(ctx iris.Context) {
	attractionID := ctx.URLParamIntDefault("attractionId", 0)
	kind := ctx.URLParamDefault("kind", "")
	page := ctx.URLParamIntDefault("page", 1)
	pageSize := ctx.URLParamIntDefault("pageSize", 10)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	query := storage.DB.Model(&models.Lodging{})
	if attractionID > 0 {
		query = query.Where("attraction_id = ?", attractionID)
	}
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if priceMin, err := ctx.URLParamFloat64("priceMin"); err == nil {
		query = query.Where("avg_price >= ?", priceMin)
	}
	if priceMax, err := ctx.URLParamFloat64("priceMax"); err == nil {
		query = query.Where("avg_price <= ?", priceMax)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var lodgings []models.Lodging
	if err := query.
		Order("name ASC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&lodgings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, lodgings, page, pageSize, total)
}

func GetLodging(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var lodging models.Lodging
	if err := storage.DB.
		Preload("Attraction", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, city, state")
		}).
		First(&lodging, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(lodging)
}

func GetLodgingsByAttraction(ctx iris.Context) {
	attractionID := ctx.Params().GetUintDefault("attractionId", 0)

	var lodgings []models.Lodging
	if err := storage.DB.
		Where("attraction_id = ?", attractionID).
		Order("name ASC").
		Find(&lodgings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(lodgings)
}

func GetLodgingsByKind(ctx iris.Context) {
	kind := ctx.Params().GetString("kind")
	if kind != models.LodgingHotel && kind != models.LodgingInn && kind != models.LodgingHostel {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Unknown lodging kind: "+kind, ctx)
		return
	}

	var lodgings []models.Lodging
	if err := storage.DB.
		Where("kind = ?", kind).
		Order("name ASC").
		Find(&lodgings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(lodgings)
}

func UpdateLodging(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var lodging models.Lodging
	if err := storage.DB.First(&lodging, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	var input UpdateLodgingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// moving the lodging to another attraction re-validates the target
	if input.AttractionID != nil && *input.AttractionID != lodging.AttractionID {
		var attraction models.Attraction
		if err := storage.DB.First(&attraction, *input.AttractionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.CreateNotFound(ctx)
				return
			}
			utils.CreateInternalServerError(ctx)
			return
		}
		lodging.AttractionID = *input.AttractionID
	}

	if input.Name != nil {
		lodging.Name = *input.Name
	}
	if input.Address != nil {
		lodging.Address = *input.Address
	}
	if input.Phone != nil {
		lodging.Phone = *input.Phone
	}
	if input.AvgPrice != nil {
		lodging.AvgPrice = input.AvgPrice
	}
	if input.Kind != nil {
		lodging.Kind = *input.Kind
	}
	if input.BookingLink != nil {
		lodging.BookingLink = *input.BookingLink
	}

	if err := storage.DB.Save(&lodging).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(lodging)
}

func DeleteLodging(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var lodging models.Lodging
	if err := storage.DB.First(&lodging, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := storage.DB.Unscoped().Delete(&lodging).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}
