package billing

import (
	"errors"
	"testing"

	"clinic-backoffice/pkg/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupReconciler(t *testing.T) (*Reconciler, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	rec := NewReconciler(gdb, DefaultPolicy(), logger.New("error"))

	cleanup := func() {
		db.Close()
	}
	return rec, mock, cleanup
}

func TestReconcile_TransactionNotFound(t *testing.T) {
	rec, mock, cleanup := setupReconciler(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `billing_transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := rec.Reconcile(42)

	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcile_StorageFailureWrapped(t *testing.T) {
	rec, mock, cleanup := setupReconciler(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `billing_transactions`").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := rec.Reconcile(42)

	assert.ErrorIs(t, err, ErrReconcileFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
