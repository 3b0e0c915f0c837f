// reports.go
package repository

import (
	"context"

	"pedidos-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
)

type StatusCount struct {
	Status model.Status `bson:"_id" json:"status"`
	Count  int          `bson:"count" json:"count"`
	Total  float64      `bson:"total" json:"total"`
}

// SummaryByStatus agrupa los pedidos del negocio por estado, con cantidad y
// facturación. Alimenta el dashboard de administración.
func (m *MongoOrderRepository) SummaryByStatus(ctx context.Context, businessID string) ([]StatusCount, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"business_id": businessID}},
		{"$group": bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
			"total": bson.M{"$sum": "$total"},
		}},
		{"$sort": bson.M{"_id": 1}},
	}

	cur, err := m.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []StatusCount
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type DeliveryTimeReport struct {
	Delivered  int     `bson:"delivered" json:"delivered"`
	AvgMinutes float64 `bson:"avg_minutes" json:"avgMinutes"`
}

// AvgDeliveryTime promedia deliveredAt - confirmedAt sobre los pedidos
// entregados. Si un pedido se entregó sin pasar por confirmed (fast-track)
// se usa created_at como punto de partida.
func (m *MongoOrderRepository) AvgDeliveryTime(ctx context.Context, businessID string) (*DeliveryTimeReport, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"business_id":                businessID,
			"status":                     model.StatusDelivered,
			"status_history.deliveredAt": bson.M{"$exists": true},
		}},
		{"$project": bson.M{
			"elapsed_ms": bson.M{"$subtract": bson.A{
				"$status_history.deliveredAt",
				bson.M{"$ifNull": bson.A{"$status_history.confirmedAt", "$created_at"}},
			}},
		}},
		{"$group": bson.M{
			"_id":       nil,
			"delivered": bson.M{"$sum": 1},
			"avg_ms":    bson.M{"$avg": "$elapsed_ms"},
		}},
		{"$project": bson.M{
			"delivered":   1,
			"avg_minutes": bson.M{"$divide": bson.A{"$avg_ms", 60000}},
		}},
	}

	cur, err := m.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []DeliveryTimeReport
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return &DeliveryTimeReport{}, nil
	}
	return &out[0], nil
}
