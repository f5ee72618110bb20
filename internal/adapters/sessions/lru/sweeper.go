package lru

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"pet-health-chat/internal/platform/logger"
)

const DefaultSweepSpec = "@every 5m"

// Sweeper corre Store.Sweep periódicamente.
type Sweeper struct {
	cron  *cron.Cron
	store *Store
	log   logger.Logger
}

func NewSweeper(store *Store, spec string, log logger.Logger) (*Sweeper, error) {
	if spec == "" {
		spec = DefaultSweepSpec
	}
	if log == nil {
		log = logger.Nop()
	}

	s := &Sweeper{
		cron:  cron.New(cron.WithLocation(time.UTC)),
		store: store,
		log:   log,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("sessions: invalid sweep spec %q: %w", spec, err)
	}
	return s, nil
}

func (s *Sweeper) run() {
	if n := s.store.Sweep(); n > 0 {
		s.log.Info("expired chat sessions swept", map[string]any{
			"removed":   n,
			"remaining": s.store.Len(),
		})
	}
}

func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop espera a que termine un sweep en curso.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}
