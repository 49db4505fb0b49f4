package database

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zndionisio-neu/MusicPlaylistAPI/models"
)

// MongoPlaylistStore is the production PlaylistStore backed by a playlist
// collection.
type MongoPlaylistStore struct {
	collection *mongo.Collection
}

func NewMongoPlaylistStore(collection *mongo.Collection) *MongoPlaylistStore {
	return &MongoPlaylistStore{collection: collection}
}

func (s *MongoPlaylistStore) Find(ctx context.Context, filter PlaylistFilter) ([]models.Playlist, error) {
	query := bson.M{"deleted": false}
	if filter.NameContains != "" {
		query["name"] = bson.M{
			"$regex":   regexp.QuoteMeta(filter.NameContains),
			"$options": "i",
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if filter.ExcludeSongs {
		opts.SetProjection(bson.M{"songs": 0})
	}

	cursor, err := s.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	var playlists []models.Playlist
	if err := cursor.All(ctx, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

func (s *MongoPlaylistStore) FindOne(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error) {
	var playlist models.Playlist
	err := s.collection.FindOne(ctx, bson.M{"_id": id, "deleted": false}).Decode(&playlist)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (s *MongoPlaylistStore) FindOneAndUpdate(ctx context.Context, id primitive.ObjectID, update PlaylistUpdate) (*models.Playlist, error) {
	set := bson.M{"updated_at": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Author != nil {
		set["author"] = *update.Author
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Songs != nil {
		set["songs"] = *update.Songs
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var playlist models.Playlist
	err := s.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "deleted": false},
		bson.M{"$set": set},
		opts,
	).Decode(&playlist)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

// Save writes the whole document, inserting it when the id is new. Song
// mutations go through here because songs have no collection of their own.
func (s *MongoPlaylistStore) Save(ctx context.Context, playlist *models.Playlist) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": playlist.ID}, playlist, opts)
	return err
}
