package processor

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"marketplace/server/config"
	"marketplace/server/internal/database"
	"marketplace/server/internal/models"
	"marketplace/server/internal/queue"
)

// Transactor runs fc inside a database transaction. *gorm.DB satisfies it.
type Transactor interface {
	Transaction(fc func(*gorm.DB) error, opts ...*sql.TxOptions) error
}

// BatchProcessor writes notification batches from the queue to the database
type BatchProcessor struct {
	db     Transactor
	logger *logrus.Logger
	config *config.Config
	queue  *queue.NotificationQueue
	ctx    context.Context
	cancel context.CancelFunc
}

// NewBatchProcessor creates a new batch processor instance
func NewBatchProcessor(db Transactor, queue *queue.NotificationQueue, config *config.Config, logger *logrus.Logger) *BatchProcessor {
	if logger == nil {
		logger = logrus.New()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchProcessor{
		db:     db,
		queue:  queue,
		config: config,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start subscribes to the queue and begins consuming it
func (p *BatchProcessor) Start() {
	p.queue.Subscribe(p.processBatch)
	p.queue.Start()
}

// Stop abandons pending retries, then closes the queue. Batches still
// queued get a single write attempt each.
func (p *BatchProcessor) Stop() {
	p.cancel()
	p.queue.Close()
}

// processBatch writes a single batch in a transaction, retrying on failure
func (p *BatchProcessor) processBatch(batch []*models.Notification) error {
	if len(batch) == 0 {
		return nil
	}

	retries := p.config.BatchProcessing.MaxRetries
	delay := time.Duration(p.config.BatchProcessing.RetryDelay) * time.Second

	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying notification batch, attempt %d of %d", attempt, retries)
			select {
			case <-p.ctx.Done():
				return fmt.Errorf("notification batch abandoned: %w", p.ctx.Err())
			case <-time.After(delay):
			}
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			if err := database.InsertNotifications(tx, batch); err != nil {
				return fmt.Errorf("failed to insert notifications batch: %w", err)
			}
			return nil
		})

		if err == nil {
			p.logger.WithField("batch_size", len(batch)).Info("Stored notification batch")
			return nil
		}

		p.logger.Errorf("Notification batch failed: %v", err)
	}

	return fmt.Errorf("failed to process batch after %d attempts: %w", retries+1, err)
}
