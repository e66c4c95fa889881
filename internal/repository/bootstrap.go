package repository

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Nama collection yang dipakai aplikasi.
const (
	UsersCollection = "users"
	TasksCollection = "tasks"
)

// EnsureIndexes membuat index yang dibutuhkan saat startup. Unique index
// pada users.email jadi penegak terakhir constraint unik; pengecekan di
// service layer hanya untuk pesan error yang ramah karena check-then-act
// antar request tetap bisa race.
func EnsureIndexes(db *mongo.Database) {
	_, err := db.Collection(UsersCollection).Indexes().CreateOne(
		context.Background(),
		mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	)
	if err != nil {
		log.Fatalf("Error creating indexes: %v", err)
	}
}
