package routes

import (
	"context"
	"time"

	"tourism-catalog-server/storage"

	"github.com/kataras/iris/v12"
)

func HealthMongo(ctx iris.Context) {
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	status := "up"
	if err := storage.Mongo.Ping(pingCtx, nil); err != nil {
		status = "down"
	}

	ctx.JSON(iris.Map{"mongo": status})
}

func HealthAll(ctx iris.Context) {
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	postgres := "up"
	if sqlDB, err := storage.DB.DB(); err != nil || sqlDB.PingContext(pingCtx) != nil {
		postgres = "down"
	}

	mongoStatus := "up"
	if storage.Mongo == nil || storage.Mongo.Ping(pingCtx, nil) != nil {
		mongoStatus = "down"
	}

	redisStatus := "up"
	if storage.Redis == nil || storage.Redis.Ping(pingCtx).Err() != nil {
		redisStatus = "down"
	}

	ctx.JSON(iris.Map{
		"postgres": postgres,
		"mongo":    mongoStatus,
		"redis":    redisStatus,
	})
}
