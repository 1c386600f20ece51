package services

import (
	"context"
	"time"

	"art-auction/pkg/logger"

	"github.com/robfig/cron/v3"
)

// LifecycleSweeper periodically drives the auction lifecycle sweep. The
// sweep itself stays a plain method on AuctionManager so an operator
// endpoint or a test can invoke it directly.
type LifecycleSweeper struct {
	cron       *cron.Cron
	auctionMgr *AuctionManager
	interval   time.Duration
	log        logger.Logger
}

func NewLifecycleSweeper(auctionMgr *AuctionManager, interval time.Duration, log logger.Logger) *LifecycleSweeper {
	return &LifecycleSweeper{
		cron:       cron.New(cron.WithSeconds()),
		auctionMgr: auctionMgr,
		interval:   interval,
		log:        log,
	}
}

func (s *LifecycleSweeper) Start(ctx context.Context) error {
	s.log.Info("Starting lifecycle sweeper", "interval", s.interval.String())

	_, err := s.cron.AddFunc("@every "+s.interval.String(), func() {
		transitions, err := s.auctionMgr.RunLifecycleSweep(ctx)
		if err != nil {
			s.log.Error("Lifecycle sweep finished with errors", "error", err)
		}
		if len(transitions) > 0 {
			s.log.Info("Lifecycle sweep applied transitions", "count", len(transitions))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *LifecycleSweeper) Stop() error {
	s.log.Info("Stopping lifecycle sweeper")
	s.cron.Stop()
	return nil
}
