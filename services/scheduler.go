// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartPublishScheduler flips scheduled matches to published once their
// publish time passes. Runs every minute for the lifetime of the process.
func (s *MatchService) StartPublishScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			if err := s.PublishDueMatches(); err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
			}
		}),
	)
}
