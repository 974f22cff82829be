package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	mysqlDriver "github.com/go-sql-driver/mysql"
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func isDuplicateEntryError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func serializeSeats(seats []int) (string, error) {
	if seats == nil {
		seats = []int{}
	}
	payload, err := json.Marshal(seats)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func parseSeats(raw string) ([]int, error) {
	if raw == "" {
		return []int{}, nil
	}
	var seats []int
	if err := json.Unmarshal([]byte(raw), &seats); err != nil {
		return nil, err
	}
	if seats == nil {
		seats = []int{}
	}
	return seats, nil
}
