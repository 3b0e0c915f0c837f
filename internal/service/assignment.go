// assignment.go
package service

import (
	"context"
	"errors"
	"log"

	"pedidos-service/internal/geo"
	"pedidos-service/internal/model"
	"pedidos-service/internal/repository"
)

type ZoneRepository interface {
	Save(ctx context.Context, z *model.CoverageZone) error
	Update(ctx context.Context, z *model.CoverageZone, resetCursor bool) error
	FindByID(ctx context.Context, zoneID string) (*model.CoverageZone, error)
	FindByBusiness(ctx context.Context, businessID string) ([]*model.CoverageZone, error)
	FindActiveByBusiness(ctx context.Context, businessID string) ([]*model.CoverageZone, error)
	Delete(ctx context.Context, zoneID string) error
	AdvanceCursor(ctx context.Context, zoneID string, expected, next int) error
}

var (
	ErrNoZoneMatch = errors.New("el destino está fuera de todas las zonas de cobertura")
	ErrNoCouriers  = errors.New("la zona no tiene repartidores asignables")
)

// Cuántas veces reintenta el avance del cursor round-robin si otro pedido
// lo movió primero.
const cursorRetries = 3

// AssignmentResolver elige repartidor para un pedido con envío: busca la
// primera zona activa que contenga el destino y aplica la estrategia de la
// zona. Todas sus fallas son no fatales: el pedido queda sin asignar y lo
// resuelve un admin a mano.
type AssignmentResolver struct {
	orders OrderRepository
	zones  ZoneRepository
}

func NewAssignmentResolver(orders OrderRepository, zones ZoneRepository) *AssignmentResolver {
	return &AssignmentResolver{orders: orders, zones: zones}
}

// matchZone devuelve la primera zona activa cuyo polígono contiene el punto.
// El orden de guardado (created_at ascendente) es la regla de desempate
// cuando hay zonas superpuestas.
func (r *AssignmentResolver) matchZone(ctx context.Context, businessID string, dest geo.Point) (*model.CoverageZone, error) {
	zones, err := r.zones.FindActiveByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	for _, z := range zones {
		if z.Polygon.Contains(dest) {
			return z, nil
		}
	}
	return nil, ErrNoZoneMatch
}

// PriceDelivery cotiza el costo de envío para un destino. matched en false
// significa "fuera de cobertura", sin error.
func (r *AssignmentResolver) PriceDelivery(ctx context.Context, businessID string, dest geo.Point) (fee float64, matched bool, err error) {
	zone, err := r.matchZone(ctx, businessID, dest)
	if errors.Is(err, ErrNoZoneMatch) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return zone.DeliveryFee, true, nil
}

// Resolve elige el repartidor y el costo para el pedido, sin escribir nada
// sobre el pedido. El avance del cursor round-robin sí se persiste acá,
// con update condicional y reintento para no repetir repartidor cuando dos
// pedidos se resuelven a la vez.
func (r *AssignmentResolver) Resolve(ctx context.Context, o *model.Order) (courierID string, fee float64, err error) {
	zone, err := r.matchZone(ctx, o.BusinessID, *o.Delivery.Destination)
	if err != nil {
		return "", 0, err
	}

	ids := zone.AssignedDeliveryIDs
	if len(ids) == 0 {
		return "", 0, ErrNoCouriers
	}

	if zone.DeliveryAssignmentStrategy != model.StrategyRoundRobin {
		// single: siempre el primero de la lista
		return ids[0], zone.DeliveryFee, nil
	}

	for attempt := 0; attempt < cursorRetries; attempt++ {
		idx := zone.LastAssignedIndex % len(ids)
		next := (idx + 1) % len(ids)

		err := r.zones.AdvanceCursor(ctx, zone.ID, zone.LastAssignedIndex, next)
		if err == nil {
			return ids[idx], zone.DeliveryFee, nil
		}
		if !errors.Is(err, repository.ErrConflict) {
			return "", 0, err
		}

		// Otro pedido movió el cursor: releemos la zona y probamos de nuevo
		zone, err = r.zones.FindByID(ctx, zone.ID)
		if err != nil {
			return "", 0, err
		}
		ids = zone.AssignedDeliveryIDs
		if len(ids) == 0 {
			return "", 0, ErrNoCouriers
		}
	}

	return "", 0, repository.ErrConflict
}

// ResolveAndAssign corre la resolución completa para un pedido recién
// confirmado. Nunca pisa una asignación existente ni una manual.
func (r *AssignmentResolver) ResolveAndAssign(ctx context.Context, orderID string) error {
	o, err := r.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if o.Delivery.Type != model.DeliveryTypeDelivery {
		return nil
	}
	if o.Delivery.AssignedDelivery != nil || o.Delivery.AssignedManually {
		return nil
	}
	if o.Delivery.Destination == nil {
		log.Printf("[Resolver] Pedido %s sin destino, queda sin asignar", orderID)
		return nil
	}

	courierID, fee, err := r.Resolve(ctx, o)
	if errors.Is(err, ErrNoZoneMatch) || errors.Is(err, ErrNoCouriers) {
		// Fuera de cobertura o pool vacío: el pedido surge como "sin
		// asignar" en el panel y lo toma un admin.
		log.Printf("[Resolver] Pedido %s sin asignación automática: %v", orderID, err)
		return nil
	}
	if err != nil {
		return err
	}

	err = r.orders.AssignCourier(ctx, orderID, courierID, fee)
	if errors.Is(err, repository.ErrConflict) {
		// Alguien asignó primero (probablemente un admin): no es error
		log.Printf("[Resolver] Pedido %s ya tenía repartidor, se respeta", orderID)
		return nil
	}
	return err
}
