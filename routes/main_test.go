package routes

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"tourism-catalog-server/models"
	"tourism-catalog-server/storage"
	"tourism-catalog-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points storage.DB at a fresh in-memory SQLite database with
// the full schema migrated. Redis stays nil so the cache is bypassed.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Attraction{},
		&models.Review{},
		&models.Lodging{},
		&models.ImportRun{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	storage.DB = db
	storage.Redis = nil
}

// buildCatalogApp wires the relational routes exactly as main does, with the
// real verifier and middlewares.
func buildCatalogApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	authed := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	user := app.Party("/api/user")
	{
		user.Post("/register", Register)
		user.Post("/login", Login)
		user.Get("/profile", authed, utils.UserIDFromTokenMiddleware, GetProfile)
		user.Get("/", authed, utils.AdminOnlyMiddleware, ListUsers)
	}

	attraction := app.Party("/api/attraction")
	{
		attraction.Get("/", GetAttractions)
		attraction.Get("/export", ExportAttractions)
		attraction.Get("/city/{city}", GetAttractionsByCity)
		attraction.Get("/{id:uint}", GetAttraction)
		attraction.Post("/", authed, utils.UserIDFromTokenMiddleware, CreateAttraction)
		attraction.Patch("/{id:uint}", authed, utils.UserIDFromTokenMiddleware, UpdateAttraction)
		attraction.Delete("/{id:uint}", authed, utils.UserIDFromTokenMiddleware, DeleteAttraction)
	}

	review := app.Party("/api/review")
	{
		review.Get("/attraction/{attractionId:uint}", GetReviewsByAttraction)
		review.Get("/attraction/{attractionId:uint}/average", GetAverageRating)
		review.Get("/{id:uint}", GetReview)
		review.Post("/", authed, utils.UserIDFromTokenMiddleware, CreateReview)
		review.Patch("/{id:uint}", authed, utils.UserIDFromTokenMiddleware, UpdateReview)
		review.Delete("/{id:uint}", authed, utils.UserIDFromTokenMiddleware, DeleteReview)
	}

	comment := app.Party("/api/comment")
	{
		comment.Post("/", authed, utils.UserIDFromTokenMiddleware, CreateComment)
		comment.Delete("/{id}", authed, utils.UserIDFromTokenMiddleware, DeleteComment)
	}

	lodging := app.Party("/api/lodging")
	{
		lodging.Get("/", GetLodgings)
		lodging.Get("/{id:uint}", GetLodging)
		lodging.Post("/", CreateLodging)
		lodging.Patch("/{id:uint}", UpdateLodging)
		lodging.Delete("/{id:uint}", DeleteLodging)
	}

	photo := app.Party("/api/photo")
	{
		photo.Post("/upload", authed, utils.UserIDFromTokenMiddleware, UploadPhotos)
		photo.Delete("/{id}", authed, utils.UserIDFromTokenMiddleware, DeletePhoto)
	}

	app.Build()
	return app
}

func createTestUser(t *testing.T, login, role string) models.User {
	t.Helper()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := models.User{
		Login:    login,
		Email:    login + "@example.com",
		Password: string(hash),
		Role:     role,
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", login, err)
	}
	return user
}

func createTestAttraction(t *testing.T, name, city string, creatorID uint) models.Attraction {
	t.Helper()

	attraction := models.Attraction{
		Name:        name,
		Description: "a place worth seeing",
		City:        city,
		State:       "RJ",
		Country:     "Brazil",
		Latitude:    -22.95,
		Longitude:   -43.21,
		Address:     "Main square, 1",
		CreatorID:   creatorID,
	}
	if err := storage.DB.Create(&attraction).Error; err != nil {
		t.Fatalf("create attraction %s: %v", name, err)
	}
	return attraction
}

func signAccessToken(t *testing.T, user models.User) string {
	t.Helper()

	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), time.Hour)
	token, err := signer.Sign(utils.AccessToken{ID: user.ID, Name: user.Login, Role: user.Role})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(token)
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(app *iris.Application, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode response %q: %v", resp.Body.String(), err)
	}
}
