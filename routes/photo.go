package routes

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"time"

	"tourism-catalog-server/models"
	"tourism-catalog-server/storage"
	"tourism-catalog-server/utils"

	"github.com/kataras/iris/v12"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const maxPhotosPerAttraction = 10

var allowedPhotoMimeTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

// validatePhotoBatch enforces the per-attraction cap and the mime allow-list
// before anything is written. The cap stays best-effort under concurrent
// uploads: count-then-insert is not atomic.
func validatePhotoBatch(existing int64, mimeTypes []string) (string, bool) {
	if existing+int64(len(mimeTypes)) > maxPhotosPerAttraction {
		return fmt.Sprintf(
			"This attraction already has %d of %d allowed photos.",
			existing, maxPhotosPerAttraction), false
	}
	for _, mime := range mimeTypes {
		if !slices.Contains(allowedPhotoMimeTypes, mime) {
			return "Unsupported file type: " + mime + ". Only JPEG, PNG and WebP are accepted.", false
		}
	}
	return "", true
}

func UploadPhotos(ctx iris.Context) {
	ctx.SetMaxRequestBodySize(64 << 20)

	if parseErr := ctx.Request().ParseMultipartForm(32 << 20); parseErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid multipart payload.", ctx)
		return
	}

	attractionID64, parseErr := strconv.ParseUint(ctx.FormValue("attractionID"), 10, 32)
	if parseErr != nil || attractionID64 == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "attractionID is required.", ctx)
		return
	}
	attractionID := uint(attractionID64)
	title := ctx.FormValue("title")
	description := ctx.FormValue("description")

	files := ctx.Request().MultipartForm.File["files"]
	if len(files) == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "At least one file is required.", ctx)
		return
	}

	var attraction models.Attraction
	if err := storage.DB.First(&attraction, attractionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	existing, countErr := storage.Photos.CountDocuments(bgCtx, bson.M{"attractionId": attractionID})
	if countErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	mimeTypes := make([]string, 0, len(files))
	for _, file := range files {
		mimeTypes = append(mimeTypes, file.Header.Get("Content-Type"))
	}
	if detail, ok := validatePhotoBatch(existing, mimeTypes); !ok {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", detail, ctx)
		return
	}

	userID := utils.CurrentUserID(ctx)
	saved := make([]models.Photo, 0, len(files))

	for _, file := range files {
		data, readErr := readMultipartFile(file)
		if readErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}

		filename, path, saveErr := storage.SavePhotoFile(data, file.Filename)
		if saveErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}

		photoTitle := title
		if photoTitle == "" {
			photoTitle = file.Filename
		}

		photo := models.Photo{
			AttractionID: attractionID,
			UploaderID:   userID,
			Filename:     filename,
			OriginalName: file.Filename,
			Title:        photoTitle,
			Description:  description,
			StoragePath:  path,
			MimeType:     file.Header.Get("Content-Type"),
			SizeBytes:    file.Size,
			CreatedAt:    time.Now(),
		}

		res, insertErr := storage.Photos.InsertOne(bgCtx, photo)
		if insertErr != nil {
			storage.RemovePhotoFile(path)
			utils.CreateInternalServerError(ctx)
			return
		}
		photo.ID = res.InsertedID.(primitive.ObjectID)
		saved = append(saved, photo)
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(saved)
}

func GetPhotosByAttraction(ctx iris.Context) {
	attractionID := ctx.Params().GetUintDefault("attractionId", 0)

	cursor, err := storage.Photos.Find(bgCtx, bson.M{"attractionId": attractionID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	photos := []models.Photo{}
	if err := cursor.All(bgCtx, &photos); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(photos)
}

func CountPhotosByAttraction(ctx iris.Context) {
	attractionID := ctx.Params().GetUintDefault("attractionId", 0)

	count, err := storage.Photos.CountDocuments(bgCtx, bson.M{"attractionId": attractionID})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"attractionID": attractionID,
		"count":        count,
	})
}

func GetPhoto(ctx iris.Context) {
	photo, ok := findPhotoByParam(ctx)
	if !ok {
		return
	}
	ctx.JSON(photo)
}

// DownloadPhoto streams the stored bytes. Metadata without a readable file
// is a distinct failure from an unknown photo id.
func DownloadPhoto(ctx iris.Context) {
	photo, ok := findPhotoByParam(ctx)
	if !ok {
		return
	}

	data, err := storage.ReadPhotoFile(photo.StoragePath)
	if err != nil {
		utils.CreateError(iris.StatusNotFound, "File Missing", "Photo file is missing from storage.", ctx)
		return
	}

	ctx.ContentType(photo.MimeType)
	ctx.Header("Content-Disposition", `inline; filename="`+photo.OriginalName+`"`)
	ctx.Write(data)
}

// canDeletePhoto restricts photo deletion to the original uploader.
func canDeletePhoto(photo *models.Photo, actorID uint) bool {
	return photo.UploaderID == actorID
}

func DeletePhoto(ctx iris.Context) {
	photo, ok := findPhotoByParam(ctx)
	if !ok {
		return
	}

	if !canDeletePhoto(photo, utils.CurrentUserID(ctx)) {
		utils.CreateForbidden(ctx)
		return
	}

	// file removal is best-effort; the metadata record goes regardless
	storage.RemovePhotoFile(photo.StoragePath)

	if _, err := storage.Photos.DeleteOne(bgCtx, bson.M{"_id": photo.ID}); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

func findPhotoByParam(ctx iris.Context) (*models.Photo, bool) {
	objectID, err := primitive.ObjectIDFromHex(ctx.Params().GetString("id"))
	if err != nil {
		utils.CreateNotFound(ctx)
		return nil, false
	}

	var photo models.Photo
	findErr := storage.Photos.FindOne(bgCtx, bson.M{"_id": objectID}).Decode(&photo)
	if findErr != nil {
		if errors.Is(findErr, mongo.ErrNoDocuments) {
			utils.CreateNotFound(ctx)
			return nil, false
		}
		utils.CreateInternalServerError(ctx)
		return nil, false
	}

	return &photo, true
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
