// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rangedb stores HC-SR04 measurements into a MySQL database.
//
// Measurements are stored in a table created with:
//
//	CREATE TABLE measurements (
//		cycle    BIGINT UNSIGNED,
//		datetime DATETIME(6),
//		start    INT,
//		end      INT,
//		distance DOUBLE,
//		status   VARCHAR(32)
//	);
package rangedb // import "github.com/go-lpc/sonar/rangedb"

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/go-lpc/sonar/hcsr04"
)

const (
	host = "localhost"
)

var (
	usr = "username"
	pwd = "s3cr3t"

	drvName = "mysql"
)

// DB stores measurements into the ranging database.
type DB struct {
	db   *sql.DB
	name string // name of the ranging database
}

// Open opens a connection to the ranging database dbname.
func Open(dbname string) (*DB, error) {
	db, err := sql.Open(drvName, dsn(dbname))
	if err != nil {
		return nil, fmt.Errorf("rangedb: could not open %q db: %w", dbname, err)
	}

	err = ping(db, dbname)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("rangedb: could not ping %q db: %w", dbname, err)
	}

	return &DB{db: db, name: dbname}, nil
}

func dsn(db string) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", usr, pwd, host, db)
}

func ping(db *sql.DB, dbname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("rangedb: could not ping %q db: %w", dbname, err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

// Insert stores one measurement.
// Failed cycles are stored too, with their status and a zero distance.
func (db *DB) Insert(ctx context.Context, m hcsr04.Measurement) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := db.db.ExecContext(
		ctx,
		"INSERT INTO measurements (cycle, datetime, start, end, distance, status) VALUES (?, ?, ?, ?, ?, ?)",
		m.Cycle, m.Time.UTC(), m.Window.Start, m.Window.End, m.Dist, hcsr04.Status(m.Err),
	)
	if err != nil {
		return fmt.Errorf("rangedb: could not insert measurement %d: %w", m.Cycle, err)
	}

	return nil
}

// Last returns the last successful distance measurement, in meters.
func (db *DB) Last(ctx context.Context) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var dist float64
	rows, err := db.db.QueryContext(
		ctx,
		"SELECT distance FROM measurements WHERE status='ok' ORDER BY datetime DESC LIMIT 1",
	)
	if err != nil {
		return dist, fmt.Errorf("rangedb: could not query distance: %w", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		err = rows.Scan(&dist)
		if err != nil {
			return dist, fmt.Errorf("rangedb: could not get distance value: %w", err)
		}
		n++
	}

	if err := rows.Err(); err != nil {
		return dist, fmt.Errorf("rangedb: could not scan db for distance: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return dist, fmt.Errorf("rangedb: context error while retrieving distance: %w", err)
	}

	if n == 0 {
		return dist, fmt.Errorf("rangedb: no measurement in %q db", db.name)
	}

	return dist, nil
}
