package services

import (
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jknair0/beforeeach"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	conn *sql.DB
	mock sqlmock.Sqlmock
	svc  *ViewService
)

func setUp() {
	conn, mock, _ = sqlmock.New()
	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		panic(err)
	}
	svc = NewViewService(db)
}

func tearDown() {
	conn.Close()
}

var it = beforeeach.Create(setUp, tearDown)

func TestNextPositionIsMaxPlusOne(t *testing.T) {
	it(func() {
		mock.ExpectQuery(`SELECT MAX\(position\) FROM "views"`).
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(5))

		if pos := svc.nextPosition(); pos != 6 {
			t.Errorf("position = %d, want 6", pos)
		}
	})
}

func TestNextPositionDefaultsToZeroWithoutViews(t *testing.T) {
	it(func() {
		mock.ExpectQuery(`SELECT MAX\(position\) FROM "views"`).
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

		if pos := svc.nextPosition(); pos != 0 {
			t.Errorf("position = %d, want 0", pos)
		}
	})
}

// A failed position lookup must not surface: the view is still created,
// at position 0.
func TestNextPositionSwallowsLookupFailure(t *testing.T) {
	it(func() {
		mock.ExpectQuery(`SELECT MAX\(position\) FROM "views"`).
			WillReturnError(errors.New("connection reset"))

		if pos := svc.nextPosition(); pos != 0 {
			t.Errorf("position = %d, want 0", pos)
		}
	})
}

func TestAssignOrderWritesListIndexes(t *testing.T) {
	it(func() {
		ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

		mock.ExpectBegin()
		for idx, id := range ids {
			mock.ExpectExec(`UPDATE "views" SET`).
				WithArgs(idx, sqlmock.AnyArg(), id).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		if err := svc.AssignOrder(ids); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestAssignOrderUnknownViewRollsBack(t *testing.T) {
	it(func() {
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "views" SET`).
			WithArgs(0, sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := svc.AssignOrder([]uuid.UUID{id})
		if !errors.Is(err, ErrViewNotFound) {
			t.Errorf("expected ErrViewNotFound, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestListViewsOrdersByPosition(t *testing.T) {
	it(func() {
		mock.ExpectQuery(`SELECT \* FROM "views" ORDER BY position ASC`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		views, err := svc.ListViews(false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(views) != 0 {
			t.Errorf("expected no views, got %d", len(views))
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestDeleteViewUnknownID(t *testing.T) {
	it(func() {
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "views"`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		if err := svc.DeleteView(id); !errors.Is(err, ErrViewNotFound) {
			t.Errorf("expected ErrViewNotFound, got %v", err)
		}
	})
}
