package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/domain"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/persistence/db"
)

type recordStore struct {
	db *mongo.Database
}

func NewRecordStore(database *mongo.Database) domain.RecordStore {
	return &recordStore{
		db: database,
	}
}

func (s *recordStore) CreateRoom(ctx context.Context, record *domain.GameRoomRecord) error {
	collection := s.db.Collection(db.GameRoomsCollection)

	_, err := collection.InsertOne(ctx, record)
	return err
}

func (s *recordStore) UpdateRoomStatus(ctx context.Context, roomCode string, status domain.RoomStatus) error {
	collection := s.db.Collection(db.GameRoomsCollection)

	filter := bson.M{"room_code": roomCode}
	update := bson.M{"$set": bson.M{"status": status}}

	_, err := collection.UpdateOne(ctx, filter, update)
	return err
}

func (s *recordStore) ArchiveRoom(ctx context.Context, roomCode string) error {
	collection := s.db.Collection(db.GameRoomsCollection)

	now := time.Now()
	filter := bson.M{"room_code": roomCode}
	update := bson.M{"$set": bson.M{
		"status":      domain.StatusArchived,
		"archived_at": now,
	}}

	_, err := collection.UpdateOne(ctx, filter, update)
	return err
}

func (s *recordStore) AddPlayer(ctx context.Context, record *domain.PlayerRecord) error {
	collection := s.db.Collection(db.PlayersCollection)

	_, err := collection.InsertOne(ctx, record)
	return err
}

func (s *recordStore) AddBuzzEvent(ctx context.Context, record *domain.BuzzEventRecord) error {
	collection := s.db.Collection(db.BuzzEventsCollection)

	_, err := collection.InsertOne(ctx, record)
	return err
}

func (s *recordStore) GetHistory(ctx context.Context, roomCode string) (*domain.RoomHistory, error) {
	rooms := s.db.Collection(db.GameRoomsCollection)

	var room domain.GameRoomRecord
	err := rooms.FindOne(ctx, bson.M{"room_code": roomCode}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}

	history := &domain.RoomHistory{
		Room:       room,
		Players:    []domain.PlayerRecord{},
		BuzzEvents: []domain.BuzzEventRecord{},
	}

	filter := bson.M{"room_code": roomCode}

	playerCursor, err := s.db.Collection(db.PlayersCollection).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer playerCursor.Close(ctx)
	if err := playerCursor.All(ctx, &history.Players); err != nil {
		return nil, err
	}

	buzzCursor, err := s.db.Collection(db.BuzzEventsCollection).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "buzzed_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer buzzCursor.Close(ctx)
	if err := buzzCursor.All(ctx, &history.BuzzEvents); err != nil {
		return nil, err
	}

	return history, nil
}

func (s *recordStore) Counts(ctx context.Context) (domain.RecordCounts, error) {
	var counts domain.RecordCounts

	rooms, err := s.db.Collection(db.GameRoomsCollection).EstimatedDocumentCount(ctx)
	if err != nil {
		return counts, err
	}
	players, err := s.db.Collection(db.PlayersCollection).EstimatedDocumentCount(ctx)
	if err != nil {
		return counts, err
	}
	buzzes, err := s.db.Collection(db.BuzzEventsCollection).EstimatedDocumentCount(ctx)
	if err != nil {
		return counts, err
	}

	counts.TotalRooms = rooms
	counts.TotalPlayers = players
	counts.TotalBuzzes = buzzes
	return counts, nil
}

func (s *recordStore) EnsureIndexes(ctx context.Context) error {
	roomIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "room_code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}
	if _, err := s.db.Collection(db.GameRoomsCollection).Indexes().CreateMany(ctx, roomIndexes); err != nil {
		return err
	}

	playerIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "room_code", Value: 1},
				{Key: "joined_at", Value: 1},
			},
		},
	}
	if _, err := s.db.Collection(db.PlayersCollection).Indexes().CreateMany(ctx, playerIndexes); err != nil {
		return err
	}

	buzzIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "room_code", Value: 1},
				{Key: "buzzed_at", Value: 1},
			},
		},
	}
	_, err := s.db.Collection(db.BuzzEventsCollection).Indexes().CreateMany(ctx, buzzIndexes)
	return err
}
