package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// The bounds check cannot use ADD CONSTRAINT IF NOT EXISTS (PostgreSQL has no
// such form), so the migration must ship it inside a DO block that swallows
// duplicate_object. This pins the statement shape so the migration stays
// runnable on first boot and idempotent on every boot after.
func TestMigrateConstraintsStatements(t *testing.T) {
	gormDB, mock := newMockGorm(t)

	mock.ExpectExec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_confirmed_reservation_per_class ON reservations \(user_id, class_id\) WHERE status = 'CONFIRMED'`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DO \$\$ BEGIN ALTER TABLE classes ADD CONSTRAINT chk_reserved_spots_bounds CHECK \(reserved_spots >= 0 AND reserved_spots <= total_spots\); EXCEPTION WHEN duplicate_object THEN NULL; END \$\$`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS idx_reservations_class_status ON reservations \(class_id, status\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS idx_reservations_user_class_date ON reservations \(user_id, class_date\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, MigrateConstraints(gormDB))
	assert.NoError(t, mock.ExpectationsWereMet())
}
