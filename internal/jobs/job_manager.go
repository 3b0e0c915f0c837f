// job_manager.go
package jobs

import "fmt"

// JobManager coordina los jobs en background del servicio.
type JobManager struct {
	outboxJob          *OutboxJob
	scheduledOrdersJob *ScheduledOrdersJob
}

func NewJobManager(outbox OutboxRepository, publisher EventPublisher, orders ScheduledOrderPromoter) *JobManager {
	return &JobManager{
		outboxJob:          NewOutboxJob(outbox, publisher),
		scheduledOrdersJob: NewScheduledOrdersJob(orders),
	}
}

// StartAll arranca todos los jobs; si uno falla, frena los ya arrancados.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxJob.Start(); err != nil {
		return fmt.Errorf("no se pudo iniciar el job de outbox: %w", err)
	}

	if err := jm.scheduledOrdersJob.Start(); err != nil {
		jm.outboxJob.Stop()
		return fmt.Errorf("no se pudo iniciar el job de pedidos programados: %w", err)
	}

	return nil
}

func (jm *JobManager) StopAll() {
	jm.scheduledOrdersJob.Stop()
	jm.outboxJob.Stop()
}
