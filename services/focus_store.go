package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Osmankaankorkmaz/Tonica/models"
)

// MongoStore implements SessionStore and TaskLookup over the users collection,
// where tasks and focus sessions live as embedded arrays.
type MongoStore struct {
	users *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{users: db.Collection("users")}
}

func (m *MongoStore) AppendSession(ctx context.Context, userID primitive.ObjectID, s models.FocusSession) error {
	res, err := m.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"focus_sessions": s},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: user", ErrNotFound)
	}
	return nil
}

func (m *MongoStore) GetSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*models.FocusSession, error) {
	var doc struct {
		FocusSessions []models.FocusSession `bson:"focus_sessions"`
	}

	err := m.users.FindOne(ctx,
		bson.M{"_id": userID, "focus_sessions._id": sessionID},
		options.FindOne().SetProjection(bson.M{"focus_sessions.$": 1}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(doc.FocusSessions) == 0 {
		return nil, nil
	}

	s := doc.FocusSessions[0]
	return &s, nil
}

func (m *MongoStore) ListSessions(ctx context.Context, userID primitive.ObjectID) ([]models.FocusSession, error) {
	var doc struct {
		FocusSessions []models.FocusSession `bson:"focus_sessions"`
	}

	err := m.users.FindOne(ctx,
		bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{"focus_sessions": 1}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	return doc.FocusSessions, nil
}

// CloseSession guards on ended_at still being unset, so the second of two
// racing close calls matches nothing and reports false.
func (m *MongoStore) CloseSession(ctx context.Context, userID, sessionID primitive.ObjectID, endedAt time.Time, completed bool, pausedSeconds int) (bool, error) {
	res, err := m.users.UpdateOne(ctx,
		bson.M{
			"_id": userID,
			"focus_sessions": bson.M{"$elemMatch": bson.M{
				"_id":      sessionID,
				"ended_at": nil,
			}},
		},
		bson.M{
			"$set": bson.M{
				"focus_sessions.$.ended_at":       endedAt,
				"focus_sessions.$.completed":      completed,
				"focus_sessions.$.paused_seconds": pausedSeconds,
				"updated_at":                      time.Now(),
			},
			"$unset": bson.M{"focus_sessions.$.paused_at": ""},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (m *MongoStore) SetPause(ctx context.Context, userID, sessionID primitive.ObjectID, pausedAt *time.Time, pausedSeconds int) (bool, error) {
	set := bson.M{
		"focus_sessions.$.paused_seconds": pausedSeconds,
		"updated_at":                      time.Now(),
	}
	update := bson.M{"$set": set}
	if pausedAt != nil {
		set["focus_sessions.$.paused_at"] = *pausedAt
	} else {
		update["$unset"] = bson.M{"focus_sessions.$.paused_at": ""}
	}

	res, err := m.users.UpdateOne(ctx,
		bson.M{
			"_id": userID,
			"focus_sessions": bson.M{"$elemMatch": bson.M{
				"_id":      sessionID,
				"ended_at": nil,
			}},
		},
		update,
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (m *MongoStore) TaskExists(ctx context.Context, userID, taskID primitive.ObjectID) (bool, error) {
	count, err := m.users.CountDocuments(ctx, bson.M{
		"_id":       userID,
		"tasks._id": taskID,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
