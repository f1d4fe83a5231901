package app

import (
	"context"
	"time"

	"github.com/lyceetalmest/rdv-backend/internal/service"
	"go.uber.org/zap"
)

// Cleanup purges old cancelled appointments once a day so the table does not
// accumulate records nobody will look at again. Active appointments are never
// touched.
type Cleanup struct {
	appointments    *service.AppointmentService
	retentionMonths int
	logger          *zap.Logger
	stopChan        chan struct{}
}

func NewCleanup(appointments *service.AppointmentService, retentionMonths int, logger *zap.Logger) *Cleanup {
	return &Cleanup{
		appointments:    appointments,
		retentionMonths: retentionMonths,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}
}

func (c *Cleanup) Start(ctx context.Context) {
	c.logger.Info("Starting retention cleanup task",
		zap.Int("retention_months", c.retentionMonths))

	go c.run(ctx)
}

func (c *Cleanup) Stop() {
	c.logger.Info("Stopping retention cleanup task")
	close(c.stopChan)
}

func (c *Cleanup) run(ctx context.Context) {
	// First sweep right at startup.
	c.sweep(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep(ctx)
		case <-c.stopChan:
			c.logger.Info("Retention cleanup task stopped")
			return
		case <-ctx.Done():
			c.logger.Info("Retention cleanup task cancelled")
			return
		}
	}
}

func (c *Cleanup) sweep(ctx context.Context) {
	removed, err := c.appointments.CleanupOld(ctx, c.retentionMonths)
	if err != nil {
		c.logger.Error("Retention cleanup failed", zap.Error(err))
		return
	}

	if removed > 0 {
		c.logger.Info("Removed old cancelled appointments", zap.Int64("count", removed))
	}
}
