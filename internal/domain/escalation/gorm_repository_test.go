package escalation

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var recordColumns = []string{
	"id", "reference", "customer_id", "gateway", "gateway_order_ref", "payment_id",
	"amount", "currency", "payload", "reason", "status", "created_at", "updated_at",
}

func newGormRepository(t *testing.T) (*GormRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return NewGormRepository(db), mock
}

func TestGormRepository_GetByReferenceMissing(t *testing.T) {
	repo, mock := newGormRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payment_escalations" WHERE reference = $1`)).
		WillReturnRows(sqlmock.NewRows(recordColumns))

	record, err := repo.GetByReference(context.Background(), "ESC-MISSING")

	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepository_GetByReferenceDatabaseError(t *testing.T) {
	repo, mock := newGormRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payment_escalations" WHERE reference = $1`)).
		WillReturnError(errors.New("connection reset by peer"))

	_, err := repo.GetByReference(context.Background(), "ESC-1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "failed to retrieve escalation")
}

func TestGormRepository_GetByReference(t *testing.T) {
	repo, mock := newGormRepository(t)
	created := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payment_escalations" WHERE reference = $1`)).
		WillReturnRows(sqlmock.NewRows(recordColumns).AddRow(
			1, "ESC-1A2B3C4D", "cust-1", "razorpay", "order_1", "pay_1",
			"490.00", "INR", `{"phone":"9876543210"}`, "order API returned 503", "open", created, created,
		))

	record, err := repo.GetByReference(context.Background(), "ESC-1A2B3C4D")

	require.NoError(t, err)
	assert.Equal(t, uint(1), record.ID)
	assert.Equal(t, "pay_1", record.PaymentID)
	assert.True(t, record.Amount.Equal(decimal.NewFromInt(490)))
	assert.Equal(t, StatusOpen, record.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepository_CreateDefaultsToOpen(t *testing.T) {
	repo, mock := newGormRepository(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "payment_escalations"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	record := &Record{
		Reference:  "ESC-1A2B3C4D",
		CustomerID: "cust-1",
		Gateway:    "cashfree",
		PaymentID:  "cf_1",
		Amount:     decimal.NewFromInt(490),
		Currency:   "INR",
	}
	err := repo.Create(context.Background(), record)

	require.NoError(t, err)
	assert.Equal(t, uint(7), record.ID)
	assert.Equal(t, StatusOpen, record.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepository_CreateFailure(t *testing.T) {
	repo, mock := newGormRepository(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "payment_escalations"`)).
		WillReturnError(errors.New("duplicate key value violates unique constraint"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &Record{Reference: "ESC-1A2B3C4D", Amount: decimal.NewFromInt(1)})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create escalation")
}

func TestGormRepository_ListFiltersByStatus(t *testing.T) {
	repo, mock := newGormRepository(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payment_escalations" WHERE status = $1 ORDER BY created_at DESC LIMIT`)).
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow(2, "ESC-2", "cust-2", "razorpay", "order_2", "pay_2", "99.50", "INR", "{}", "timeout", "open", now, now).
			AddRow(1, "ESC-1", "cust-1", "razorpay", "order_1", "pay_1", "490.00", "INR", "{}", "timeout", "open", now, now))

	records, err := repo.List(context.Background(), StatusOpen, 10)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ESC-2", records[0].Reference)
	assert.Equal(t, "99.5", records[0].Amount.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
