package storage

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Mongo    *mongo.Client
	Comments *mongo.Collection
	Photos   *mongo.Collection
)

func InitializeMongo() {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
		log.Println("MONGO_URI not set, using localhost:27017 (development mode)")
	}

	dbName := os.Getenv("MONGO_DATABASE")
	if dbName == "" {
		dbName = "tourism_catalog"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Panic("error connecting to mongo: " + err.Error())
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Panic("mongo not reachable: " + err.Error())
	}

	Mongo = client
	db := client.Database(dbName)
	Comments = db.Collection("comments")
	Photos = db.Collection("photos")

	log.Println("Mongo initialized with database:", dbName)
}
