// status.go
package model

// Status es el estado del ciclo de vida de un pedido. Se persiste como string.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusOnWay     Status = "on_way"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Orden de avance del pedido. cancelled queda afuera porque no es parte
// de la secuencia: se llega desde cualquier estado no final.
var statusRanks = map[Status]int{
	StatusPending:   0,
	StatusConfirmed: 1,
	StatusPreparing: 2,
	StatusReady:     3,
	StatusOnWay:     4,
	StatusDelivered: 5,
}

// StatusSequence expone la secuencia de avance, en orden. La usan los
// reportes y las validaciones de historial.
var StatusSequence = []Status{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusOnWay,
	StatusDelivered,
}

// Estados finales: no admiten ninguna transición posterior.
var finalStatuses = map[Status]bool{
	StatusDelivered: true,
	StatusCancelled: true,
}

func (s Status) IsValid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRanks[s]
	return ok
}

func (s Status) IsFinal() bool {
	return finalStatuses[s]
}

// CanTransitionTo decide si el cambio de estado es legal:
//   - desde un estado final no se sale nunca
//   - cancelled se acepta desde cualquier estado no final
//   - el resto sólo avanza en la secuencia (se permite saltear estados,
//     un pedido retirado en local puede pasar de confirmed a delivered)
func (s Status) CanTransitionTo(next Status) bool {
	if s.IsFinal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	from, okFrom := statusRanks[s]
	to, okTo := statusRanks[next]
	if !okFrom || !okTo {
		return false
	}
	return to > from
}

// HistoryKey es la clave que usa statusHistory para este estado: "<status>At".
func (s Status) HistoryKey() string {
	return string(s) + "At"
}
