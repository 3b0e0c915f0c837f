package repository

import (
	"context"
	"errors"
	"time"

	"pedidos-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("pedido no encontrado")

	// ErrConflict: el filtro condicional no matcheó porque otro proceso
	// modificó el documento entre la lectura y el update.
	ErrConflict = errors.New("el documento cambió, reintentar")
)

// Mongo implementation
type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection("orders")}
}

func (m *MongoOrderRepository) Save(ctx context.Context, o *model.Order) error {
	now := time.Now().UTC()

	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now

	if o.StatusHistory == nil {
		o.StatusHistory = map[string]time.Time{
			o.Status.HistoryKey(): now,
		}
	}

	_, err := m.col.InsertOne(ctx, o)
	return err
}

func (m *MongoOrderRepository) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var res model.Order
	err := m.col.FindOne(ctx, bson.M{"_id": orderID}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

// UpdateStatus escribe el nuevo estado y agrega la clave de historial en UN
// solo UpdateOne: o pasa todo junto o no pasa nada. El filtro exige el estado
// actual esperado, así dos transiciones concurrentes no se pisan.
func (m *MongoOrderRepository) UpdateStatus(ctx context.Context, orderID string, from, to model.Status, at time.Time) error {
	filter := bson.M{
		"_id":    orderID,
		"status": from,
	}

	update := bson.M{
		"$set": bson.M{
			"status": to,
			"status_history." + to.HistoryKey(): at,
			"updated_at":                        at,
		},
	}

	r, err := m.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if r.MatchedCount == 0 {
		// Distinguimos "no existe" de "existe pero cambió de estado"
		if _, err := m.FindByID(ctx, orderID); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

// AssignCourier guarda la asignación automática del resolver. El filtro exige
// que el pedido siga sin repartidor: si un admin asignó a mano mientras tanto,
// este write no matchea y la asignación manual queda intacta.
//
// La tarifa resuelta puede diferir de la cotizada en el checkout (la zona se
// creó o editó después), así que el total se recalcula en el mismo update
// para mantener total == subtotal + costo de envío.
func (m *MongoOrderRepository) AssignCourier(ctx context.Context, orderID, courierID string, cost float64) error {
	filter := bson.M{
		"_id":                        orderID,
		"delivery.assigned_delivery": nil,
	}

	update := bson.A{
		bson.M{"$set": bson.M{
			"delivery.assigned_delivery": courierID,
			"delivery.delivery_cost":     cost,
			"total":                      bson.M{"$add": bson.A{"$subtotal", cost}},
			"updated_at":                 time.Now().UTC(),
		}},
	}

	r, err := m.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if r.MatchedCount == 0 {
		if _, err := m.FindByID(ctx, orderID); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

// AssignCourierManual es la asignación directa del admin: pisa lo que haya
// y queda marcada para que el resolver automático no la revierta.
func (m *MongoOrderRepository) AssignCourierManual(ctx context.Context, orderID, courierID string) error {
	update := bson.M{
		"$set": bson.M{
			"delivery.assigned_delivery": courierID,
			"delivery.assigned_manually": true,
			"updated_at":                 time.Now().UTC(),
		},
	}

	r, err := m.col.UpdateOne(ctx, bson.M{"_id": orderID}, update)
	if err != nil {
		return err
	}
	if r.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoOrderRepository) FindByBusiness(ctx context.Context, businessID string) ([]*model.Order, error) {
	return m.findMany(ctx, bson.M{"business_id": businessID})
}

func (m *MongoOrderRepository) FindByBusinessAndStatus(ctx context.Context, businessID string, status model.Status) ([]*model.Order, error) {
	return m.findMany(ctx, bson.M{"business_id": businessID, "status": status})
}

// FindUnassigned lista los pedidos tipo delivery sin repartidor, para que el
// admin los asigne a mano.
func (m *MongoOrderRepository) FindUnassigned(ctx context.Context, businessID string) ([]*model.Order, error) {
	return m.findMany(ctx, bson.M{
		"business_id":                businessID,
		"delivery.type":              model.DeliveryTypeDelivery,
		"delivery.assigned_delivery": nil,
		"status":                     bson.M{"$nin": bson.A{model.StatusDelivered, model.StatusCancelled}},
	})
}

// FindScheduledDue devuelve pedidos programados cuya hora ya llegó y siguen
// pendientes. Los usa el job de promoción.
func (m *MongoOrderRepository) FindScheduledDue(ctx context.Context, before time.Time) ([]*model.Order, error) {
	return m.findMany(ctx, bson.M{
		"timing.type":          model.TimingScheduled,
		"timing.scheduled_for": bson.M{"$lte": before},
		"status":               model.StatusPending,
	})
}

func (m *MongoOrderRepository) findMany(ctx context.Context, filter bson.M) ([]*model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Order
	for cur.Next(ctx) {
		var v model.Order
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}
