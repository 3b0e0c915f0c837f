// outbox_job.go
package jobs

import (
	"context"
	"log"
	"time"

	"pedidos-service/internal/model"

	"github.com/robfig/cron/v3"
)

type OutboxRepository interface {
	FindPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkSent(ctx context.Context, eventID string) error
	MarkFailedAttempt(ctx context.Context, e *model.OutboxEvent) error
}

type EventPublisher interface {
	Publish(ctx context.Context, e *model.OutboxEvent) error
}

const outboxBatchSize = 100

// OutboxJob barre los eventos pendientes cada segundo y los publica a
// Rabbit. Una falla en un evento suma un reintento y no frena el lote.
type OutboxJob struct {
	outbox    OutboxRepository
	publisher EventPublisher
	cron      *cron.Cron
}

func NewOutboxJob(outbox OutboxRepository, publisher EventPublisher) *OutboxJob {
	return &OutboxJob{
		outbox:    outbox,
		publisher: publisher,
		cron:      cron.New(cron.WithSeconds()),
	}
}

func (j *OutboxJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		j.sweep(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	log.Println("[Outbox] Job iniciado (cada segundo)")
	return nil
}

func (j *OutboxJob) Stop() {
	j.cron.Stop()
	log.Println("[Outbox] Job detenido")
}

func (j *OutboxJob) sweep(ctx context.Context) {
	events, err := j.outbox.FindPending(ctx, outboxBatchSize)
	if err != nil {
		log.Println("[Outbox] Error buscando eventos pendientes:", err)
		return
	}

	for _, e := range events {
		if err := j.publisher.Publish(ctx, e); err != nil {
			log.Printf("[Outbox] Error publicando evento %s: %v", e.ID, err)
			if err := j.outbox.MarkFailedAttempt(ctx, e); err != nil {
				log.Printf("[Outbox] Error registrando reintento de %s: %v", e.ID, err)
			}
			continue
		}

		if err := j.outbox.MarkSent(ctx, e.ID); err != nil {
			log.Printf("[Outbox] Error marcando evento %s como enviado: %v", e.ID, err)
		}
	}
}
