package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic idle-session sweep.
type Scheduler struct {
	cron  *cron.Cron
	spec  string
	sweep func() int
}

func New(spec string, sweep func() int) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithLocation(time.UTC)),
		spec:  spec,
		sweep: sweep,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if n := s.sweep(); n > 0 {
			log.Printf("expired %d idle session(s)", n)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
