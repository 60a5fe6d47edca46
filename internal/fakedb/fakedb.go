// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fakedb provides an in-memory database/sql driver for tests.
//
// Queries return the rows installed with Run.
// Statements executed with Exec are recorded and can be retrieved with
// Execs.
package fakedb // import "github.com/go-lpc/sonar/internal/fakedb"

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"sync"
)

var db struct {
	mu    sync.Mutex
	rows  Rows
	execs []Exec
	err   error
}

// Exec is a statement executed against the fake database.
type Exec struct {
	Query string
	Args  []driver.Value
}

// Run installs rows as the result of the next queries and the error
// returned by the next statements, then runs f.
func Run(ctx context.Context, rows Rows, f func(ctx context.Context) error) error {
	return RunErr(ctx, rows, nil, f)
}

// RunErr is like Run, but makes statement executions fail with err.
func RunErr(ctx context.Context, rows Rows, err error, f func(ctx context.Context) error) error {
	db.mu.Lock()
	db.rows = rows
	db.execs = nil
	db.err = err
	db.mu.Unlock()

	return f(ctx)
}

// Execs returns the statements executed since the last call to Run.
func Execs() []Exec {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]Exec(nil), db.execs...)
}

func init() {
	sql.Register("fakedb", &Driver{})
}

type Driver struct{}

func (drv *Driver) Open(name string) (driver.Conn, error) {
	return &Conn{}, nil
}

type Conn struct{}

func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	return &Stmt{query: query}, nil
}

func (c *Conn) Close() error {
	return nil
}

func (c *Conn) Begin() (driver.Tx, error) {
	panic("not implemented")
}

type Stmt struct {
	query string
}

func (stmt *Stmt) Close() error {
	return nil
}

// NumInput returns -1: the fake driver does not check placeholders.
func (stmt *Stmt) NumInput() int {
	return -1
}

func (stmt *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.err != nil {
		return nil, db.err
	}
	db.execs = append(db.execs, Exec{
		Query: stmt.query,
		Args:  append([]driver.Value(nil), args...),
	})
	return driver.RowsAffected(1), nil
}

func (stmt *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.err != nil {
		return nil, db.err
	}
	rows := db.rows
	return &rows, nil
}

type Rows struct {
	Names  []string
	Values [][]driver.Value
}

func (rows *Rows) Columns() []string {
	return rows.Names
}

func (rows *Rows) Close() error {
	return nil
}

// Next returns io.EOF once all values have been consumed.
func (rows *Rows) Next(dest []driver.Value) error {
	if len(rows.Values) == 0 {
		return io.EOF
	}
	copy(dest, rows.Values[0])
	rows.Values = rows.Values[1:]
	return nil
}

var (
	_ driver.Driver = (*Driver)(nil)
	_ driver.Conn   = (*Conn)(nil)
	_ driver.Stmt   = (*Stmt)(nil)
	_ driver.Rows   = (*Rows)(nil)
)
