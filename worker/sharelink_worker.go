package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"docuhub/models"
	"docuhub/utils"
)

// ShareLinkWorker periodically deactivates expired share links so a
// leaked token stops working even if nobody attempts to redeem it.
type ShareLinkWorker struct {
	db       *gorm.DB
	logger   *logrus.Entry
	interval time.Duration
}

func NewShareLinkWorker(db *gorm.DB, interval time.Duration) *ShareLinkWorker {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &ShareLinkWorker{
		db:       db,
		logger:   utils.NewLogger("sharelink-worker"),
		interval: interval,
	}
}

func (sw *ShareLinkWorker) Start(ctx context.Context) {
	sw.logger.Info("starting share link worker")
	ticker := time.NewTicker(sw.interval)

	for {
		select {
		case <-ticker.C:
			sw.sweepExpired()
		case <-ctx.Done():
			sw.logger.Info("stopping share link worker")
			ticker.Stop()
			return
		}
	}
}

// sweepExpired flips is_active on links past their expiry. Rows are never
// deleted; revocation history stays queryable.
func (sw *ShareLinkWorker) sweepExpired() {
	result := sw.db.Model(&models.ShareLink{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, time.Now()).
		Update("is_active", false)
	if result.Error != nil {
		sw.logger.WithError(result.Error).Error("failed to sweep expired share links")
		return
	}
	if result.RowsAffected > 0 {
		sw.logger.WithField("count", result.RowsAffected).Info("deactivated expired share links")
	}
}
