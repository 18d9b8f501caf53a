package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vencia/vencia-backend/internal/lots/repository"
	"github.com/vencia/vencia-backend/pkg/database"
	"github.com/vencia/vencia-backend/pkg/errors"
	"github.com/vencia/vencia-backend/pkg/logger"
	"github.com/vencia/vencia-backend/pkg/testutil"
)

var lotRows = []string{
	"id", "product_id", "lot_number", "expiry_date", "received_date",
	"quantity", "retired", "retire_reason", "retire_note", "retired_at",
	"created_at", "updated_at",
}

func newTestRepo(t *testing.T) (*repository.LotRepository, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	log := logger.New("lot-service-test", "development")
	repo := repository.NewLotRepository(database.NewWithDB(mockDB.DB, log))
	return repo, mockDB
}

func TestLotRepository_ListByProduct(t *testing.T) {
	repo, mockDB := newTestRepo(t)
	defer mockDB.Close()

	now := time.Now()
	rows := sqlmock.NewRows(lotRows).
		AddRow("lot-1", "prod-1", "L-001", "2026-09-10", now, 30, false, nil, nil, nil, now, now).
		AddRow("lot-2", "prod-1", "L-002", nil, now, 10, false, nil, nil, nil, now, now)

	mockDB.ExpectQuery("FROM lots").
		WithArgs("prod-1").
		WillReturnRows(rows)

	lots, err := repo.ListByProduct(context.Background(), "prod-1")
	require.NoError(t, err)
	require.Len(t, lots, 2)

	require.NotNil(t, lots[0].ExpiryDate)
	assert.Equal(t, "2026-09-10", *lots[0].ExpiryDate)
	assert.Nil(t, lots[1].ExpiryDate)

	mockDB.ExpectationsWereMet(t)
}

func TestLotRepository_ListNearExpiry_SetsHint(t *testing.T) {
	repo, mockDB := newTestRepo(t)
	defer mockDB.Close()

	now := time.Now()
	rows := sqlmock.NewRows(append(lotRows, "is_near_expiry")).
		AddRow("lot-1", "prod-1", "L-001", "2026-09-05", now, 5, false, nil, nil, nil, now, now, true)

	mockDB.ExpectQuery("is_near_expiry").
		WithArgs(15).
		WillReturnRows(rows)

	lots, err := repo.ListNearExpiry(context.Background(), 15)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.True(t, lots[0].IsNearExpiry)
	assert.False(t, lots[0].IsExpired)

	mockDB.ExpectationsWereMet(t)
}

func TestLotRepository_GetByID_NotFound(t *testing.T) {
	repo, mockDB := newTestRepo(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("FROM lots").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(lotRows))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	mockDB.ExpectationsWereMet(t)
}

func TestLotRepository_Retire(t *testing.T) {
	repo, mockDB := newTestRepo(t)
	defer mockDB.Close()

	now := time.Now()
	note := "damaged packaging"

	mockDB.ExpectBegin()
	mockDB.ExpectExec("UPDATE lots SET").
		WithArgs("lot-1", "expired", &note).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectQuery("FROM lots WHERE id").
		WithArgs("lot-1").
		WillReturnRows(sqlmock.NewRows(lotRows).
			AddRow("lot-1", "prod-1", "L-001", "2026-01-01", now, 30, true, "expired", &note, now, now, now))
	mockDB.ExpectExec("INSERT INTO lot_writeoffs").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectCommit()

	lot, err := repo.Retire(context.Background(), "lot-1", "expired", &note, nil)
	require.NoError(t, err)
	assert.True(t, lot.Retired)
	assert.Equal(t, "prod-1", lot.ProductID)

	mockDB.ExpectationsWereMet(t)
}

func TestLotRepository_Retire_AlreadyRetired(t *testing.T) {
	repo, mockDB := newTestRepo(t)
	defer mockDB.Close()

	mockDB.ExpectBegin()
	mockDB.ExpectExec("UPDATE lots SET").
		WithArgs("lot-1", "expired", nil).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.ExpectQuery("SELECT EXISTS").
		WithArgs("lot-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mockDB.ExpectRollback()

	_, err := repo.Retire(context.Background(), "lot-1", "expired", nil, nil)
	assert.True(t, errors.Is(err, errors.ErrConflict))

	mockDB.ExpectationsWereMet(t)
}

func TestLotRepository_Retire_NotFound(t *testing.T) {
	repo, mockDB := newTestRepo(t)
	defer mockDB.Close()

	mockDB.ExpectBegin()
	mockDB.ExpectExec("UPDATE lots SET").
		WithArgs("missing", "expired", nil).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.ExpectQuery("SELECT EXISTS").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mockDB.ExpectRollback()

	_, err := repo.Retire(context.Background(), "missing", "expired", nil, nil)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	mockDB.ExpectationsWereMet(t)
}
