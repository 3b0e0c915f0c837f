// scheduled_orders_job.go
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type ScheduledOrderPromoter interface {
	PromoteScheduledDue(ctx context.Context, now time.Time) int
}

// ScheduledOrdersJob confirma cada minuto los pedidos programados cuya
// hora ya llegó, para que la cocina los vea entrar.
type ScheduledOrdersJob struct {
	orders ScheduledOrderPromoter
	cron   *cron.Cron
}

func NewScheduledOrdersJob(orders ScheduledOrderPromoter) *ScheduledOrdersJob {
	return &ScheduledOrdersJob{
		orders: orders,
		cron:   cron.New(),
	}
}

func (j *ScheduledOrdersJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if n := j.orders.PromoteScheduledDue(ctx, time.Now().UTC()); n > 0 {
			log.Printf("[Programados] %d pedidos promovidos a confirmed", n)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	log.Println("[Programados] Job iniciado (cada minuto)")
	return nil
}

func (j *ScheduledOrdersJob) Stop() {
	j.cron.Stop()
	log.Println("[Programados] Job detenido")
}
