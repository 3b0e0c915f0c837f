// zones.go
package service

import (
	"context"

	"pedidos-service/internal/dto"
	"pedidos-service/internal/model"

	"github.com/google/uuid"
)

// ZoneService administra las zonas de cobertura de un negocio (las dibuja
// el admin en el mapa). La validación corre antes de cualquier write.
type ZoneService struct {
	zones ZoneRepository
}

func NewZoneService(zones ZoneRepository) *ZoneService {
	return &ZoneService{zones: zones}
}

func (s *ZoneService) Create(ctx context.Context, businessID string, req dto.SaveZoneRequest) (*model.CoverageZone, error) {
	if err := req.Polygon.Validate(); err != nil {
		return nil, err
	}

	strategy := req.DeliveryAssignmentStrategy
	if strategy == "" {
		strategy = model.StrategySingle
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	zone := &model.CoverageZone{
		ID:                         uuid.NewString(),
		BusinessID:                 businessID,
		Name:                       req.Name,
		Polygon:                    req.Polygon,
		DeliveryFee:                req.DeliveryFee,
		AssignedDeliveryIDs:        req.AssignedDeliveryIDs,
		DeliveryAssignmentStrategy: strategy,
		IsActive:                   active,
	}

	return zone, s.zones.Save(ctx, zone)
}

// Update edita una zona existente del negocio. El cursor del round-robin
// se reinicia si cambió la lista de repartidores, para no apuntar afuera;
// si no cambió, el write no lo toca (el resolver puede estar avanzándolo).
func (s *ZoneService) Update(ctx context.Context, businessID, zoneID string, req dto.SaveZoneRequest) (*model.CoverageZone, error) {
	if err := req.Polygon.Validate(); err != nil {
		return nil, err
	}

	zone, err := s.zones.FindByID(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	if zone.BusinessID != businessID {
		return nil, ErrForbiddenZone
	}

	resetCursor := !sameIDs(zone.AssignedDeliveryIDs, req.AssignedDeliveryIDs)
	if resetCursor {
		zone.LastAssignedIndex = 0
	}

	zone.Name = req.Name
	zone.Polygon = req.Polygon
	zone.DeliveryFee = req.DeliveryFee
	zone.AssignedDeliveryIDs = req.AssignedDeliveryIDs
	if req.DeliveryAssignmentStrategy != "" {
		zone.DeliveryAssignmentStrategy = req.DeliveryAssignmentStrategy
	}
	if req.IsActive != nil {
		zone.IsActive = *req.IsActive
	}

	return zone, s.zones.Update(ctx, zone, resetCursor)
}

func (s *ZoneService) Delete(ctx context.Context, businessID, zoneID string) error {
	zone, err := s.zones.FindByID(ctx, zoneID)
	if err != nil {
		return err
	}
	if zone.BusinessID != businessID {
		return ErrForbiddenZone
	}
	return s.zones.Delete(ctx, zoneID)
}

func (s *ZoneService) GetByBusiness(ctx context.Context, businessID string) ([]*model.CoverageZone, error) {
	return s.zones.FindByBusiness(ctx, businessID)
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
