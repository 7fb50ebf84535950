package jobs

import (
	"log"
	"time"

	"github.com/usdstake/backend/services"
)

// RunDailyAccrual is scheduled by the cron in main. Running it more than once
// a day is harmless: positions whose last accrual date already advanced are
// skipped by the guarded update in the staking service.
func RunDailyAccrual() {
	log.Println("Running job: RunDailyAccrual...")

	summary, err := services.RunAccrualBatch(time.Now())
	if err != nil {
		log.Printf("🔥 Accrual batch failed: %v", err)
		return
	}

	log.Printf("Accrual batch finished: %d positions updated, %d completed", summary.PositionsUpdated, summary.PositionsCompleted)
}
