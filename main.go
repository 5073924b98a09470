package main

import (
	"log"
	"os"

	"tourism-catalog-server/routes"
	"tourism-catalog-server/storage"
	"tourism-catalog-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeMongo()
	storage.InitializeRedis()
	storage.InitializeUploads()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	resetTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("EMAIL_TOKEN_SECRET")))
	resetTokenVerifier.WithDefaultBlocklist()
	resetTokenVerifierMiddleware := resetTokenVerifier.Verify(func() interface{} {
		return new(utils.ForgotPasswordToken)
	})

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/google", routes.GoogleLoginOrSignUp)
		user.Post("/apple", routes.AppleLoginOrSignUp)
		user.Post("/forgotpassword", routes.ForgotPassword)
		user.Post("/resetpassword", resetTokenVerifierMiddleware, routes.ResetPassword)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/profile", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetProfile)
		user.Get("/", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.ListUsers)
	}

	attraction := app.Party("/api/attraction")
	{
		attraction.Get("/", routes.GetAttractions)
		attraction.Get("/export", routes.ExportAttractions)
		attraction.Post("/import", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.ImportAttractions)
		attraction.Get("/city/{city}", routes.GetAttractionsByCity)
		attraction.Get("/state/{state}", routes.GetAttractionsByState)
		attraction.Get("/{id:uint}", routes.GetAttraction)
		attraction.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateAttraction)
		attraction.Patch("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateAttraction)
		attraction.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.DeleteAttraction)
	}

	review := app.Party("/api/review")
	{
		review.Get("/", routes.GetReviews)
		review.Get("/attraction/{attractionId:uint}", routes.GetReviewsByAttraction)
		review.Get("/attraction/{attractionId:uint}/average", routes.GetAverageRating)
		review.Get("/user/{userId:uint}", routes.GetReviewsByUser)
		review.Get("/{id:uint}", routes.GetReview)
		review.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateReview)
		review.Patch("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateReview)
		review.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.DeleteReview)
	}

	comment := app.Party("/api/comment")
	{
		comment.Get("/", routes.GetComments)
		comment.Get("/attraction/{attractionId:uint}/count", routes.CountCommentsByAttraction)
		comment.Get("/{id}", routes.GetComment)
		comment.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateComment)
		comment.Post("/{id}/reply", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.AddReply)
		comment.Patch("/{id}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateComment)
		comment.Delete("/{id}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.DeleteComment)
	}

	// lodging data is open: no auth on any route, including writes
	lodging := app.Party("/api/lodging")
	{
		lodging.Get("/", routes.GetLodgings)
		lodging.Get("/attraction/{attractionId:uint}", routes.GetLodgingsByAttraction)
		lodging.Get("/kind/{kind}", routes.GetLodgingsByKind)
		lodging.Get("/{id:uint}", routes.GetLodging)
		lodging.Post("/", routes.CreateLodging)
		lodging.Patch("/{id:uint}", routes.UpdateLodging)
		lodging.Delete("/{id:uint}", routes.DeleteLodging)
	}

	photo := app.Party("/api/photo")
	{
		photo.Get("/attraction/{attractionId:uint}", routes.GetPhotosByAttraction)
		photo.Get("/attraction/{attractionId:uint}/count", routes.CountPhotosByAttraction)
		photo.Get("/{id}", routes.GetPhoto)
		photo.Get("/{id}/download", routes.DownloadPhoto)
		photo.Post("/upload", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UploadPhotos)
		photo.Delete("/{id}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.DeletePhoto)
	}

	health := app.Party("/api/health")
	{
		health.Get("/", routes.HealthAll)
		health.Get("/mongo", routes.HealthMongo)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Starting tourism catalog server on port", port)
	app.Listen(":" + port)
}
