package config

import "fmt"

const (
	SchedulerNone  = "none"
	SchedulerCron  = "cron"
	SchedulerAsynq = "asynq"
)

type Scheduler struct {
	Mode        string `env:"SCHEDULER_MODE" envDefault:"none"`
	// Cron is a standard five-field spec or a descriptor such as @every 6h.
	Cron        string `env:"SCHEDULER_CRON" envDefault:"0 */6 * * *"`
	Queue       string `env:"SCHEDULER_QUEUE" envDefault:"ingestion"`
	Concurrency int    `env:"SCHEDULER_CONCURRENCY" envDefault:"1"`
}

func (s Scheduler) validate() error {
	switch s.Mode {
	case SchedulerNone, SchedulerCron, SchedulerAsynq:
		return nil
	}
	return fmt.Errorf("unknown scheduler mode %q", s.Mode)
}
