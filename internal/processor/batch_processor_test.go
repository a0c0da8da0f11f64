package processor

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"marketplace/server/config"
	"marketplace/server/internal/models"
	"marketplace/server/internal/queue"
)

// MockDB is a mock implementation of Transactor
type MockDB struct {
	mock.Mock
}

func (m *MockDB) Transaction(fc func(*gorm.DB) error, opts ...*sql.TxOptions) error {
	args := m.Called(fc)
	return args.Error(0)
}

func testConfig(retries int) *config.Config {
	cfg := &config.Config{}
	cfg.BatchProcessing.MaxRetries = retries
	cfg.BatchProcessing.RetryDelay = 0
	return cfg
}

func TestNewBatchProcessor(t *testing.T) {
	mockDB := &MockDB{}
	q := queue.NewNotificationQueue(10, nil)
	cfg := testConfig(3)
	logger := logrus.New()

	processor := NewBatchProcessor(mockDB, q, cfg, logger)

	assert.NotNil(t, processor)
	assert.Equal(t, mockDB, processor.db)
	assert.Equal(t, q, processor.queue)
	assert.Equal(t, cfg, processor.config)
	assert.Equal(t, logger, processor.logger)
}

func TestBatchProcessor_ProcessBatch(t *testing.T) {
	batch := []*models.Notification{
		{UserID: 1, Kind: models.NotificationBookingStatus, Message: "Booking confirmed"},
		{UserID: 2, Kind: models.NotificationBookingStatus, Message: "Booking declined"},
	}

	t.Run("Success", func(t *testing.T) {
		mockDB := &MockDB{}
		mockDB.On("Transaction", mock.Anything).Return(nil).Once()

		processor := NewBatchProcessor(mockDB, queue.NewNotificationQueue(10, nil), testConfig(3), nil)
		assert.NoError(t, processor.processBatch(batch))
		mockDB.AssertExpectations(t)
	})

	t.Run("Retries then fails", func(t *testing.T) {
		mockDB := &MockDB{}
		mockDB.On("Transaction", mock.Anything).Return(errors.New("db error"))

		processor := NewBatchProcessor(mockDB, queue.NewNotificationQueue(10, nil), testConfig(2), nil)
		err := processor.processBatch(batch)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to process batch after 3 attempts")
		mockDB.AssertNumberOfCalls(t, "Transaction", 3)
	})

	t.Run("Recovers on retry", func(t *testing.T) {
		mockDB := &MockDB{}
		mockDB.On("Transaction", mock.Anything).Return(errors.New("database is locked")).Once()
		mockDB.On("Transaction", mock.Anything).Return(nil).Once()

		processor := NewBatchProcessor(mockDB, queue.NewNotificationQueue(10, nil), testConfig(3), nil)
		assert.NoError(t, processor.processBatch(batch))
		mockDB.AssertNumberOfCalls(t, "Transaction", 2)
	})

	t.Run("Empty batch is skipped", func(t *testing.T) {
		mockDB := &MockDB{}
		processor := NewBatchProcessor(mockDB, queue.NewNotificationQueue(10, nil), testConfig(3), nil)
		assert.NoError(t, processor.processBatch(nil))
		mockDB.AssertNotCalled(t, "Transaction", mock.Anything)
	})

	t.Run("Stopped processor abandons retries", func(t *testing.T) {
		mockDB := &MockDB{}
		mockDB.On("Transaction", mock.Anything).Return(errors.New("db error"))

		cfg := testConfig(5)
		cfg.BatchProcessing.RetryDelay = 60
		processor := NewBatchProcessor(mockDB, queue.NewNotificationQueue(10, nil), cfg, nil)
		processor.cancel()

		err := processor.processBatch(batch)
		assert.ErrorContains(t, err, "abandoned")
		mockDB.AssertNumberOfCalls(t, "Transaction", 1)
	})
}

func TestBatchProcessor_StopSkipsRetryDelays(t *testing.T) {
	mockDB := &MockDB{}
	mockDB.On("Transaction", mock.Anything).Return(errors.New("database is locked"))

	cfg := testConfig(3)
	cfg.BatchProcessing.RetryDelay = 2
	q := queue.NewNotificationQueue(10, nil)
	processor := NewBatchProcessor(mockDB, q, cfg, nil)

	assert.NoError(t, q.Push([]*models.Notification{{UserID: 1, Message: "first"}}))
	assert.NoError(t, q.Push([]*models.Notification{{UserID: 2, Message: "second"}}))
	processor.Start()

	start := time.Now()
	processor.Stop()

	assert.Less(t, time.Since(start), time.Second)
	mockDB.AssertNumberOfCalls(t, "Transaction", 2)
}

func TestBatchProcessor_StartStop(t *testing.T) {
	mockDB := &MockDB{}
	mockDB.On("Transaction", mock.Anything).Return(nil)
	q := queue.NewNotificationQueue(10, nil)

	processor := NewBatchProcessor(mockDB, q, testConfig(0), nil)
	processor.Start()

	assert.NoError(t, q.Push([]*models.Notification{{UserID: 1, Message: "queued"}}))
	processor.Stop()

	assert.True(t, q.IsClosed())
	mockDB.AssertNumberOfCalls(t, "Transaction", 1)
}
