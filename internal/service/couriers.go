// couriers.go
package service

import (
	"context"

	"pedidos-service/internal/dto"
	"pedidos-service/internal/model"

	"github.com/google/uuid"
)

// CourierService administra los repartidores de la plataforma.
type CourierService struct {
	couriers CourierRepository
}

func NewCourierService(couriers CourierRepository) *CourierService {
	return &CourierService{couriers: couriers}
}

func (s *CourierService) Create(ctx context.Context, req dto.SaveCourierRequest) (*model.Courier, error) {
	courier := &model.Courier{
		ID:     uuid.NewString(),
		Name:   req.Name,
		Phone:  req.Phone,
		Estado: model.CourierActivo,
	}
	return courier, s.couriers.Save(ctx, courier)
}

func (s *CourierService) Update(ctx context.Context, courierID string, req dto.SaveCourierRequest) (*model.Courier, error) {
	courier, err := s.couriers.FindByID(ctx, courierID)
	if err != nil {
		return nil, err
	}

	courier.Name = req.Name
	courier.Phone = req.Phone
	return courier, s.couriers.Save(ctx, courier)
}

// SetPhoto guarda la URL pública que devolvió el storage.
func (s *CourierService) SetPhoto(ctx context.Context, courierID, photoURL string) error {
	courier, err := s.couriers.FindByID(ctx, courierID)
	if err != nil {
		return err
	}
	courier.PhotoURL = photoURL
	return s.couriers.Save(ctx, courier)
}

// SetEstado activa/desactiva. No hay borrado: los pedidos históricos
// siguen referenciando al repartidor.
func (s *CourierService) SetEstado(ctx context.Context, courierID, estado string) error {
	if estado != model.CourierActivo && estado != model.CourierInactivo {
		return ErrInvalidStatus
	}
	return s.couriers.SetEstado(ctx, courierID, estado)
}

func (s *CourierService) GetAll(ctx context.Context) ([]*model.Courier, error) {
	return s.couriers.FindAll(ctx)
}

func (s *CourierService) GetByID(ctx context.Context, courierID string) (*model.Courier, error) {
	return s.couriers.FindByID(ctx, courierID)
}
