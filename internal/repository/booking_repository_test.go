package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glampway/yurt-reservation/internal/model"
)

// testDB opens the database named by TEST_DB_DSN, or skips.  The schema
// must already be migrated; these tests exercise the real unique index
// behaviour that unit tests cannot fake.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedUserAndYurt(t *testing.T, db *sql.DB) (userID, yurtID uint64) {
	t.Helper()
	ctx := context.Background()
	email := fmt.Sprintf("it-%d@example.test", time.Now().UnixNano())
	res, err := db.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, phone) VALUES (?, 'x', '+1000000000')", email)
	require.NoError(t, err)
	uid, _ := res.LastInsertId()

	res, err = db.ExecContext(ctx,
		"INSERT INTO yurts (name, color, capacity, price_cents) VALUES ('IT yurt', 'white', 4, 10000)")
	require.NoError(t, err)
	yid, _ := res.LastInsertId()

	t.Cleanup(func() {
		_, _ = db.ExecContext(ctx, "DELETE FROM bookings WHERE user_id = ?", uid)
		_, _ = db.ExecContext(ctx, "DELETE FROM yurts WHERE id = ?", yid)
		_, _ = db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", uid)
	})
	return uint64(uid), uint64(yid)
}

func createBooking(t *testing.T, repo *BookingRepo, userID, yurtID uint64, date, slot string) (Booking, error) {
	t.Helper()
	ctx := context.Background()
	tx, err := repo.DB().BeginTx(ctx, nil)
	require.NoError(t, err)
	b := Booking{UserID: userID, YurtID: yurtID, Date: date, Slot: slot}
	if err := repo.CreateTx(ctx, tx, &b); err != nil {
		_ = tx.Rollback()
		return Booking{}, err
	}
	require.NoError(t, tx.Commit())
	return b, nil
}

func TestBookingSlotExclusivity(t *testing.T) {
	db := testDB(t)
	repo := NewBookingRepo(db)
	userID, yurtID := seedUserAndYurt(t, db)
	ctx := context.Background()
	date := time.Now().AddDate(0, 1, 0).Format("2006-01-02")

	booked, err := repo.BookedSlots(ctx, yurtID, date)
	require.NoError(t, err)
	assert.Empty(t, booked)

	first, err := createBooking(t, repo, userID, yurtID, date, model.SlotEvening)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, first.Status)
	assert.Equal(t, date, first.Date)

	// same slot again: the unique index rejects it
	_, err = createBooking(t, repo, userID, yurtID, date, model.SlotEvening)
	assert.ErrorIs(t, err, ErrConflict)

	// the other slot is still free
	_, err = createBooking(t, repo, userID, yurtID, date, model.SlotAfternoon)
	require.NoError(t, err)

	booked, err = repo.BookedSlots(ctx, yurtID, date)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{model.SlotAfternoon, model.SlotEvening}, booked)
}

func TestCancelledBookingFreesSlot(t *testing.T) {
	db := testDB(t)
	repo := NewBookingRepo(db)
	userID, yurtID := seedUserAndYurt(t, db)
	ctx := context.Background()
	date := time.Now().AddDate(0, 2, 0).Format("2006-01-02")

	first, err := createBooking(t, repo, userID, yurtID, date, model.SlotAfternoon)
	require.NoError(t, err)

	tx, err := repo.DB().BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatusTx(ctx, tx, first.ID, model.StatusCancelled))
	require.NoError(t, tx.Commit())

	// the slot can be rebooked once the previous booking is cancelled
	_, err = createBooking(t, repo, userID, yurtID, date, model.SlotAfternoon)
	require.NoError(t, err)
}
