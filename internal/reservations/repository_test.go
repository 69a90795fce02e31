package reservations

import (
	"context"
	"testing"
	"time"

	"fitbook/internal/classes"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	return NewRepository(gormDB), mock
}

func classRow(id uuid.UUID, totalSpots, reservedSpots int, status classes.Status, date time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "instructor", "category", "date",
		"start_time", "end_time", "total_spots", "reserved_spots", "status",
	}).AddRow(
		id, "Power Spinning", "Carlos Vega", "spinning", date,
		"18:00", "19:00", totalSpots, reservedSpots, string(status),
	)
}

func reservationRow(id, userID, classID uuid.UUID, status Status, classDate time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "user_name", "user_email", "class_id",
		"class_name", "class_date", "class_time", "status",
	}).AddRow(
		id, userID, "Sofia Reyes", "sofia.reyes@example.com", classID,
		"Power Spinning", classDate, "18:00 - 19:00", string(status),
	)
}

func TestCreateWithSpotClaim(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	classID := uuid.New()
	classDate := time.Now().Add(48 * time.Hour)

	t.Run("claims spot and writes reservation in one transaction", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "classes" WHERE id = \$1(.+)FOR UPDATE`).
			WillReturnRows(classRow(classID, 20, 5, classes.StatusActive, classDate))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "reservations"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO "reservations"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
		mock.ExpectExec(`UPDATE "classes" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		reservation, err := repo.CreateWithSpotClaim(ctx, userID, "Sofia Reyes", "sofia.reyes@example.com", classID)
		require.NoError(t, err)

		assert.Equal(t, StatusConfirmed, reservation.Status)
		assert.Equal(t, "Power Spinning", reservation.ClassName)
		assert.Equal(t, "18:00 - 19:00", reservation.ClassTime)
		assert.Equal(t, userID, reservation.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown class rolls back", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "classes" WHERE id = \$1(.+)FOR UPDATE`).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectRollback()

		_, err := repo.CreateWithSpotClaim(ctx, userID, "Sofia Reyes", "sofia.reyes@example.com", classID)
		assert.ErrorIs(t, err, ErrClassNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelled class is not bookable", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "classes" WHERE id = \$1(.+)FOR UPDATE`).
			WillReturnRows(classRow(classID, 20, 5, classes.StatusCancelled, classDate))
		mock.ExpectRollback()

		_, err := repo.CreateWithSpotClaim(ctx, userID, "Sofia Reyes", "sofia.reyes@example.com", classID)
		assert.ErrorIs(t, err, ErrClassNotBookable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate confirmed reservation is rejected", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "classes" WHERE id = \$1(.+)FOR UPDATE`).
			WillReturnRows(classRow(classID, 20, 5, classes.StatusActive, classDate))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "reservations"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		_, err := repo.CreateWithSpotClaim(ctx, userID, "Sofia Reyes", "sofia.reyes@example.com", classID)
		assert.ErrorIs(t, err, ErrDuplicateReservation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("full class leaves no spot to claim", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "classes" WHERE id = \$1(.+)FOR UPDATE`).
			WillReturnRows(classRow(classID, 10, 10, classes.StatusFull, classDate))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "reservations"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectRollback()

		_, err := repo.CreateWithSpotClaim(ctx, userID, "Sofia Reyes", "sofia.reyes@example.com", classID)
		assert.ErrorIs(t, err, ErrNoAvailableSpots)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCancelWithSpotRelease(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	reservationID := uuid.New()
	userID := uuid.New()
	classID := uuid.New()

	t.Run("cancels and releases the spot in one transaction", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		classDate := now.Add(24 * time.Hour)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "reservations" WHERE id = \$1(.+)FOR UPDATE`).
			WillReturnRows(reservationRow(reservationID, userID, classID, StatusConfirmed, classDate))
		mock.ExpectQuery(`SELECT \* FROM "classes" WHERE id = \$1(.+)FOR UPDATE`).
			WillReturnRows(classRow(classID, 20, 6, classes.StatusActive, classDate))
		mock.ExpectExec(`UPDATE "reservations" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "classes" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		cancelled, err := repo.CancelWithSpotRelease(ctx, reservationID, now)
		require.NoError(t, err)

		assert.Equal(t, StatusCancelled, cancelled.Status)
		require.NotNil(t, cancelled.CancelledAt)
		assert.Equal(t, now, *cancelled.CancelledAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second cancel is rejected", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "reservations" WHERE id = \$1(.+)FOR UPDATE`).
			WillReturnRows(reservationRow(reservationID, userID, classID, StatusCancelled, now.Add(24*time.Hour)))
		mock.ExpectRollback()

		_, err := repo.CancelWithSpotRelease(ctx, reservationID, now)
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("elapsed class cannot be cancelled", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "reservations" WHERE id = \$1(.+)FOR UPDATE`).
			WillReturnRows(reservationRow(reservationID, userID, classID, StatusConfirmed, now.Add(-24*time.Hour)))
		mock.ExpectRollback()

		_, err := repo.CancelWithSpotRelease(ctx, reservationID, now)
		assert.ErrorIs(t, err, ErrClassAlreadyOccurred)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown reservation rolls back", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "reservations" WHERE id = \$1(.+)FOR UPDATE`).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectRollback()

		_, err := repo.CancelWithSpotRelease(ctx, reservationID, now)
		assert.ErrorIs(t, err, ErrReservationNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
