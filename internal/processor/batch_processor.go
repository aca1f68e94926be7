package processor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"estatequery/server/config"
	"estatequery/server/internal/database"
	"estatequery/server/internal/models"
	"estatequery/server/internal/queue"
)

// Transactor runs fc inside a database transaction. *gorm.DB satisfies it.
type Transactor interface {
	Transaction(fc func(*gorm.DB) error, opts ...*sql.TxOptions) error
}

// BatchObserver is notified once per batch with its final outcome.
type BatchObserver interface {
	ObserveImportBatch(err error)
}

// BatchProcessor stores listing batches taken from the import queue
type BatchProcessor struct {
	db       Transactor
	logger   *logrus.Logger
	config   *config.Config
	queue    *queue.ListingQueue
	observer BatchObserver
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewBatchProcessor creates a new batch processor instance
func NewBatchProcessor(db Transactor, queue *queue.ListingQueue, config *config.Config, logger *logrus.Logger) *BatchProcessor {
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

func (p *BatchProcessor) SetObserver(observer BatchObserver) {
	p.observer = observer
}

// Start subscribes to the queue and launches the configured number of workers
func (p *BatchProcessor) Start() {
	p.queue.Subscribe(func(batch []*models.Listing) error {
		return p.processBatch(batch)
	})
	p.queue.Start(p.config.BatchProcessing.ProcessorCount)
}

// Stop aborts pending retries and waits for the workers to exit
func (p *BatchProcessor) Stop() {
	p.cancel()
	p.queue.Close()
}

// processBatch handles a single batch of listings with transaction and retry logic
func (p *BatchProcessor) processBatch(batch []*models.Listing) error {
	err := p.storeWithRetry(batch)
	if p.observer != nil {
		p.observer.ObserveImportBatch(err)
	}
	return err
}

func (p *BatchProcessor) storeWithRetry(batch []*models.Listing) error {
	maxRetries := p.config.BatchProcessing.MaxRetries
	retryDelay := time.Duration(p.config.BatchProcessing.RetryDelay) * time.Second

	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying batch processing, attempt %d of %d", attempt, maxRetries)
			select {
			case <-p.ctx.Done():
				return fmt.Errorf("batch processing cancelled: %w", p.ctx.Err())
			case <-time.After(retryDelay):
			}
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			if err := database.UpsertListings(tx, batch); err != nil {
				return fmt.Errorf("failed to upsert listings batch: %w", err)
			}
			return nil
		})

		if err == nil {
			p.logger.Infof("Successfully processed batch of %d listings", len(batch))
			return nil
		}

		p.logger.WithError(err).Error("Batch processing failed")
		if isPermanent(err) {
			return fmt.Errorf("batch rejected by database, not retrying: %w", err)
		}
	}

	return fmt.Errorf("failed to process batch after %d attempts: %w", maxRetries+1, err)
}

// isPermanent reports constraint violations that fail the same way on every attempt.
func isPermanent(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrDuplicatedKey)
}
