// zones.go
package repository

import (
	"context"
	"time"

	"pedidos-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoZoneRepository struct {
	col *mongo.Collection
}

func NewMongoZoneRepository(db *mongo.Database) *MongoZoneRepository {
	return &MongoZoneRepository{col: db.Collection("coverage_zones")}
}

func (m *MongoZoneRepository) Save(ctx context.Context, z *model.CoverageZone) error {
	now := time.Now().UTC()
	if z.CreatedAt.IsZero() {
		z.CreatedAt = now
	}
	z.UpdatedAt = now

	filter := bson.M{"_id": z.ID}
	update := bson.M{"$set": z}
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx, filter, update, opts)
	return err
}

// Update escribe sólo los campos editables de la zona. No toca el cursor del
// round-robin salvo el reset explícito: el resolver lo avanza en paralelo y
// un write del documento completo podría retrocederlo.
func (m *MongoZoneRepository) Update(ctx context.Context, z *model.CoverageZone, resetCursor bool) error {
	set := bson.M{
		"name":                         z.Name,
		"polygon":                      z.Polygon,
		"delivery_fee":                 z.DeliveryFee,
		"assigned_delivery_ids":        z.AssignedDeliveryIDs,
		"delivery_assignment_strategy": z.DeliveryAssignmentStrategy,
		"is_active":                    z.IsActive,
		"updated_at":                   time.Now().UTC(),
	}
	if resetCursor {
		set["last_assigned_index"] = 0
	}

	r, err := m.col.UpdateOne(ctx, bson.M{"_id": z.ID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if r.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoZoneRepository) FindByID(ctx context.Context, zoneID string) (*model.CoverageZone, error) {
	var res model.CoverageZone
	err := m.col.FindOne(ctx, bson.M{"_id": zoneID}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

// FindActiveByBusiness devuelve las zonas activas en orden de creación: ese
// orden define el desempate cuando los polígonos se superponen.
func (m *MongoZoneRepository) FindActiveByBusiness(ctx context.Context, businessID string) ([]*model.CoverageZone, error) {
	filter := bson.M{"business_id": businessID, "is_active": true}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.CoverageZone
	for cur.Next(ctx) {
		var v model.CoverageZone
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

func (m *MongoZoneRepository) FindByBusiness(ctx context.Context, businessID string) ([]*model.CoverageZone, error) {
	cur, err := m.col.Find(ctx, bson.M{"business_id": businessID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.CoverageZone
	for cur.Next(ctx) {
		var v model.CoverageZone
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

func (m *MongoZoneRepository) Delete(ctx context.Context, zoneID string) error {
	r, err := m.col.DeleteOne(ctx, bson.M{"_id": zoneID})
	if err != nil {
		return err
	}
	if r.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AdvanceCursor avanza el cursor del round-robin con concurrencia optimista:
// el filtro exige el valor leído, si otro pedido avanzó el cursor primero el
// update no matchea y devolvemos ErrConflict para que el resolver relea.
func (m *MongoZoneRepository) AdvanceCursor(ctx context.Context, zoneID string, expected, next int) error {
	filter := bson.M{
		"_id":                 zoneID,
		"last_assigned_index": expected,
	}
	update := bson.M{
		"$set": bson.M{
			"last_assigned_index": next,
			"updated_at":          time.Now().UTC(),
		},
	}

	r, err := m.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if r.MatchedCount == 0 {
		if _, err := m.FindByID(ctx, zoneID); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}
