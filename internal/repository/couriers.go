// couriers.go
package repository

import (
	"context"
	"time"

	"pedidos-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoCourierRepository struct {
	col *mongo.Collection
}

func NewMongoCourierRepository(db *mongo.Database) *MongoCourierRepository {
	return &MongoCourierRepository{col: db.Collection("deliveries")}
}

func (m *MongoCourierRepository) Save(ctx context.Context, c *model.Courier) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	filter := bson.M{"_id": c.ID}
	update := bson.M{"$set": c}
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx, filter, update, opts)
	return err
}

func (m *MongoCourierRepository) FindByID(ctx context.Context, courierID string) (*model.Courier, error) {
	var res model.Courier
	err := m.col.FindOne(ctx, bson.M{"_id": courierID}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

func (m *MongoCourierRepository) FindAll(ctx context.Context) ([]*model.Courier, error) {
	cur, err := m.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Courier
	for cur.Next(ctx) {
		var v model.Courier
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

// SetEstado activa o desactiva un repartidor. No se borran: los pedidos
// históricos los siguen referenciando.
func (m *MongoCourierRepository) SetEstado(ctx context.Context, courierID, estado string) error {
	update := bson.M{
		"$set": bson.M{
			"estado":     estado,
			"updated_at": time.Now().UTC(),
		},
	}

	r, err := m.col.UpdateOne(ctx, bson.M{"_id": courierID}, update)
	if err != nil {
		return err
	}
	if r.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
