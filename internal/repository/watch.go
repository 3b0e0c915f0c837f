// watch.go
package repository

import (
	"context"
	"log"

	"pedidos-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WatchOrder abre un change stream sobre UN pedido y empuja cada versión
// nueva del documento por el canal. Lo usa la página de seguimiento del
// cliente; se corta cancelando el contexto (desconexión del navegador).
func (m *MongoOrderRepository) WatchOrder(ctx context.Context, orderID string) (<-chan *model.Order, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"documentKey._id": orderID,
			"operationType":   bson.M{"$in": bson.A{"update", "replace"}},
		}}},
	}

	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := m.col.Watch(ctx, pipeline, opts)
	if err != nil {
		return nil, err
	}

	ch := make(chan *model.Order)

	go func() {
		defer close(ch)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			var event struct {
				FullDocument model.Order `bson:"fullDocument"`
			}
			if err := stream.Decode(&event); err != nil {
				log.Println("[Watch] Error decodificando evento:", err)
				continue
			}

			select {
			case ch <- &event.FullDocument:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}
