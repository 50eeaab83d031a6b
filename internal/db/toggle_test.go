package db

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
)

const (
	existsSQL = `SELECT EXISTS\(SELECT 1 FROM follows`
	insertSQL = `INSERT INTO follows`
	deleteSQL = `DELETE FROM follows`
)

func TestToggleMembershipAdds(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(existsSQL).
		WithArgs("user-1", "user-2").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(insertSQL).
		WithArgs("user-1", "user-2").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	added, err := ToggleMembership(context.Background(), mock,
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id=$1 AND following_id=$2)`,
		`INSERT INTO follows (follower_id, following_id) VALUES ($1,$2)`,
		`DELETE FROM follows WHERE follower_id=$1 AND following_id=$2`,
		"user-1", "user-2")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !added {
		t.Fatalf("expected edge added")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestToggleMembershipRemoves(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(existsSQL).
		WithArgs("user-1", "user-2").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(deleteSQL).
		WithArgs("user-1", "user-2").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	added, err := ToggleMembership(context.Background(), mock,
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id=$1 AND following_id=$2)`,
		`INSERT INTO follows (follower_id, following_id) VALUES ($1,$2)`,
		`DELETE FROM follows WHERE follower_id=$1 AND following_id=$2`,
		"user-1", "user-2")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if added {
		t.Fatalf("expected edge removed")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNewMigratorBadURL(t *testing.T) {
	if _, err := NewMigrator("not-a-url"); err == nil {
		t.Fatalf("expected error for bad database url")
	}
}
