// outbox.go
package repository

import (
	"context"
	"time"

	"pedidos-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoOutboxRepository struct {
	col *mongo.Collection
}

func NewMongoOutboxRepository(db *mongo.Database) *MongoOutboxRepository {
	return &MongoOutboxRepository{col: db.Collection("outbox_events")}
}

func (m *MongoOutboxRepository) Insert(ctx context.Context, e *model.OutboxEvent) error {
	e.EventStatus = model.EventStatusPending
	e.RetryCount = 0
	if e.MaxRetries == 0 {
		e.MaxRetries = 3
	}
	e.CreatedAt = time.Now().UTC()

	_, err := m.col.InsertOne(ctx, e)
	return err
}

// FindPending devuelve el lote de eventos a publicar, los más viejos primero.
func (m *MongoOutboxRepository) FindPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	filter := bson.M{"event_status": model.EventStatusPending}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.OutboxEvent
	for cur.Next(ctx) {
		var v model.OutboxEvent
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

func (m *MongoOutboxRepository) MarkSent(ctx context.Context, eventID string) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"event_status": model.EventStatusSent,
			"sent_at":      now,
		},
	}
	_, err := m.col.UpdateOne(ctx, bson.M{"_id": eventID}, update)
	return err
}

// MarkFailedAttempt suma un reintento; agotados los reintentos el evento
// queda en failed y deja de barrerse.
func (m *MongoOutboxRepository) MarkFailedAttempt(ctx context.Context, e *model.OutboxEvent) error {
	e.RetryCount++

	set := bson.M{}
	if e.RetryCount >= e.MaxRetries {
		set["event_status"] = model.EventStatusFailed
	}

	update := bson.M{"$inc": bson.M{"retry_count": 1}}
	if len(set) > 0 {
		update["$set"] = set
	}

	_, err := m.col.UpdateOne(ctx, bson.M{"_id": e.ID}, update)
	return err
}
