package routes

import (
	"errors"
	"fmt"

	"tourism-catalog-server/models"
	"tourism-catalog-server/storage"
	"tourism-catalog-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

type CreateAttractionInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"required"`
	City        string  `json:"city" validate:"required,max=100"`
	State       string  `json:"state" validate:"required,max=100"`
	Country     string  `json:"country" validate:"required,max=100"`
	Latitude    float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64 `json:"longitude" validate:"min=-180,max=180"`
	Address     string  `json:"address" validate:"required,max=500"`
}

type UpdateAttractionInput struct {
	Name        *string  `json:"name" validate:"omitempty,max=255"`
	Description *string  `json:"description"`
	City        *string  `json:"city" validate:"omitempty,max=100"`
	State       *string  `json:"state" validate:"omitempty,max=100"`
	Country     *string  `json:"country" validate:"omitempty,max=100"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	Address     *string  `json:"address" validate:"omitempty,max=500"`
}

type attractionPage struct {
	Data  []models.Attraction `json:"data"`
	Total int64               `json:"total"`
}

func CreateAttraction(ctx iris.Context) {
	var input CreateAttractionInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	taken, checkErr := attractionNameTakenInCity(input.Name, input.City, 0)
	if checkErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if taken {
		utils.CreateConflict("An attraction with this name already exists in this city.", ctx)
		return
	}

	attraction := models.Attraction{
		Name:        input.Name,
		Description: input.Description,
		City:        input.City,
		State:       input.State,
		Country:     input.Country,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Address:     input.Address,
		CreatorID:   utils.CurrentUserID(ctx),
	}

	if err := storage.DB.Create(&attraction).Error; err != nil {
		// the (name, city) unique index may win a create race
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.CreateConflict("An attraction with this name already exists in this city.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(attraction)
}

func GetAttractions(ctx iris.Context) {
	name := ctx.URLParamDefault("name", "")
	city := ctx.URLParamDefault("city", "")
	state := ctx.URLParamDefault("state", "")
	page := ctx.URLParamIntDefault("page", 1)
	pageSize := ctx.URLParamIntDefault("pageSize", 10)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	cacheKey := fmt.Sprintf("attraction:list:%s:%s:%s:%d:%d", name, city, state, page, pageSize)
	var cached attractionPage
	if storage.CacheGet(cacheKey, &cached) {
		utils.JSONPage(ctx, cached.Data, page, pageSize, cached.Total)
		return
	}

	query := storage.DB.Model(&models.Attraction{})
	if name != "" {
		query = query.Where("name = ?", name)
	}
	if city != "" {
		query = query.Where("city = ?", city)
	}
	if state != "" {
		query = query.Where("state = ?", state)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var attractions []models.Attraction
	if err := query.
		Preload("Creator", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, login, email")
		}).
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&attractions).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.CacheSet(cacheKey, attractionPage{Data: attractions, Total: total})

	utils.JSONPage(ctx, attractions, page, pageSize, total)
}

func GetAttraction(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	if id == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid attraction ID.", ctx)
		return
	}

	cacheKey := fmt.Sprintf("attraction:%d", id)
	var cached models.Attraction
	if storage.CacheGet(cacheKey, &cached) {
		ctx.JSON(cached)
		return
	}

	var attraction models.Attraction
	if err := storage.DB.
		Preload("Creator", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, login, email")
		}).
		Preload("Reviews").
		Preload("Lodgings").
		First(&attraction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.CacheSet(cacheKey, attraction)

	ctx.JSON(attraction)
}

func GetAttractionsByCity(ctx iris.Context) {
	city := ctx.Params().GetString("city")

	cacheKey := "attraction:city:" + city
	var cached []models.Attraction
	if storage.CacheGet(cacheKey, &cached) {
		ctx.JSON(cached)
		return
	}

	var attractions []models.Attraction
	if err := storage.DB.
		Preload("Creator", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, login, email")
		}).
		Where("city = ?", city).
		Find(&attractions).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.CacheSet(cacheKey, attractions)

	ctx.JSON(attractions)
}

func GetAttractionsByState(ctx iris.Context) {
	state := ctx.Params().GetString("state")

	cacheKey := "attraction:state:" + state
	var cached []models.Attraction
	if storage.CacheGet(cacheKey, &cached) {
		ctx.JSON(cached)
		return
	}

	var attractions []models.Attraction
	if err := storage.DB.
		Preload("Creator", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, login, email")
		}).
		Where("state = ?", state).
		Find(&attractions).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.CacheSet(cacheKey, attractions)

	ctx.JSON(attractions)
}

func UpdateAttraction(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var attraction models.Attraction
	if err := storage.DB.First(&attraction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if attraction.CreatorID != utils.CurrentUserID(ctx) {
		utils.CreateForbidden(ctx)
		return
	}

	var input UpdateAttractionInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// uniqueness re-runs against the incoming (name, city) pair, falling
	// back to the stored value for whichever half the patch omits
	if input.Name != nil || input.City != nil {
		newName := attraction.Name
		if input.Name != nil {
			newName = *input.Name
		}
		newCity := attraction.City
		if input.City != nil {
			newCity = *input.City
		}

		taken, checkErr := attractionNameTakenInCity(newName, newCity, attraction.ID)
		if checkErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		if taken {
			utils.CreateConflict("An attraction with this name already exists in this city.", ctx)
			return
		}

		attraction.Name = newName
		attraction.City = newCity
	}

	if input.Description != nil {
		attraction.Description = *input.Description
	}
	if input.State != nil {
		attraction.State = *input.State
	}
	if input.Country != nil {
		attraction.Country = *input.Country
	}
	if input.Latitude != nil {
		attraction.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		attraction.Longitude = *input.Longitude
	}
	if input.Address != nil {
		attraction.Address = *input.Address
	}

	if err := storage.DB.Save(&attraction).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.CreateConflict("An attraction with this name already exists in this city.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.CacheInvalidate(
		fmt.Sprintf("attraction:%d", attraction.ID),
		"attraction:city:"+attraction.City,
		"attraction:state:"+attraction.State,
	)

	ctx.JSON(attraction)
}

func DeleteAttraction(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var attraction models.Attraction
	if err := storage.DB.First(&attraction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if attraction.CreatorID != utils.CurrentUserID(ctx) {
		utils.CreateForbidden(ctx)
		return
	}

	// hard delete; reviews and lodgings go with it through the FK cascade
	if err := storage.DB.Unscoped().Delete(&attraction).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.CacheInvalidate(
		fmt.Sprintf("attraction:%d", attraction.ID),
		"attraction:city:"+attraction.City,
		"attraction:state:"+attraction.State,
	)

	ctx.StatusCode(iris.StatusNoContent)
}

// attractionNameTakenInCity reports whether another attraction (excluding
// excludeID) already uses the exact name in the exact city.
func attractionNameTakenInCity(name, city string, excludeID uint) (bool, error) {
	query := storage.DB.Model(&models.Attraction{}).Where("name = ? AND city = ?", name, city)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
