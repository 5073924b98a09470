package utils

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

type errorRes struct {
	Status    int         `json:"status"`
	Title     string      `json:"title"`
	Detail    string      `json:"detail"`
	TimeStamp int64       `json:"timestamp"`
	Errors    interface{} `json:"errors,omitempty"`
}

func CreateError(statusCode int, title string, detail string, ctx iris.Context) {
	ctx.StopWithJSON(statusCode, errorRes{
		Status:    statusCode,
		Title:     title,
		Detail:    detail,
		TimeStamp: time.Now().Unix(),
	})
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "Not Found", "Resource not found.", ctx)
}

func CreateForbidden(ctx iris.Context) {
	CreateError(iris.StatusForbidden, "Forbidden", "You do not have permission to perform this action.", ctx)
}

func CreateConflict(detail string, ctx iris.Context) {
	CreateError(iris.StatusConflict, "Conflict", detail, ctx)
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred.", ctx)
}

func CreateEmailAlreadyRegistered(ctx iris.Context) {
	CreateConflict("Email already registered.", ctx)
}

type validationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Value string `json:"value,omitempty"`
}

// HandleValidationErrors turns ReadJSON/validator failures into a 400 with
// per-field details when available.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		out := make([]validationError, 0, len(errs))
		for _, e := range errs {
			out = append(out, validationError{
				Field: e.Field(),
				Tag:   e.Tag(),
				Value: e.Param(),
			})
		}

		ctx.StopWithJSON(iris.StatusBadRequest, errorRes{
			Status:    iris.StatusBadRequest,
			Title:     "Validation Error",
			Detail:    "One or more fields failed validation.",
			TimeStamp: time.Now().Unix(),
			Errors:    out,
		})
		return
	}

	CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
}
