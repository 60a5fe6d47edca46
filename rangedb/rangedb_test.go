// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rangedb

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-lpc/sonar/hcsr04"
	"github.com/go-lpc/sonar/internal/fakedb"
)

func init() {
	drvName = "fakedb"
}

func TestOpen(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open rangedb: %+v", err)
	}
	defer db.Close()
}

func TestDSN(t *testing.T) {
	if got, want := dsn("sonar"), "username:s3cr3t@tcp(localhost)/sonar?parseTime=true"; got != want {
		t.Fatalf("invalid DSN: got=%q, want=%q", got, want)
	}
}

func TestInsert(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open rangedb: %+v", err)
	}
	defer db.Close()

	ts := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	_ = fakedb.Run(context.Background(), fakedb.Rows{}, func(ctx context.Context) error {
		for _, m := range []hcsr04.Measurement{
			{Cycle: 1, Time: ts, Window: hcsr04.Window{Start: 100, End: 3275}, Dist: 0.1},
			{Cycle: 2, Time: ts, Err: hcsr04.ErrTimeout},
		} {
			err := db.Insert(ctx, m)
			if err != nil {
				t.Fatalf("could not insert measurement: %+v", err)
			}
		}

		execs := fakedb.Execs()
		if got, want := len(execs), 2; got != want {
			t.Fatalf("invalid number of statements: got=%d, want=%d", got, want)
		}
		if !strings.HasPrefix(execs[0].Query, "INSERT INTO measurements") {
			t.Fatalf("invalid statement: %q", execs[0].Query)
		}

		for i, want := range [][]driver.Value{
			{int64(1), ts, int64(100), int64(3275), 0.1, "ok"},
			{int64(2), ts, int64(0), int64(0), 0.0, "timeout"},
		} {
			got := execs[i].Args
			if len(got) != len(want) {
				t.Fatalf("invalid number of args: got=%v, want=%v", got, want)
			}
			for j := range want {
				if tv, ok := want[j].(time.Time); ok {
					if !got[j].(time.Time).Equal(tv) {
						t.Fatalf("exec[%d] arg[%d]: got=%v, want=%v", i, j, got[j], want[j])
					}
					continue
				}
				if got[j] != want[j] {
					t.Fatalf("exec[%d] arg[%d]: got=%v (%T), want=%v (%T)", i, j, got[j], got[j], want[j], want[j])
				}
			}
		}
		return nil
	})
}

func TestInsertError(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open rangedb: %+v", err)
	}
	defer db.Close()

	boom := errors.New("boom")
	_ = fakedb.RunErr(context.Background(), fakedb.Rows{}, boom, func(ctx context.Context) error {
		err := db.Insert(ctx, hcsr04.Measurement{Cycle: 3})
		if !errors.Is(err, boom) {
			t.Fatalf("invalid error: got=%+v, want=%+v", err, boom)
		}
		if got, want := err.Error(), "rangedb: could not insert measurement 3: boom"; got != want {
			t.Fatalf("invalid error message:\ngot= %v\nwant=%v", got, want)
		}
		return nil
	})
}

func TestLast(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open rangedb: %+v", err)
	}
	defer db.Close()

	_ = fakedb.Run(context.Background(), fakedb.Rows{
		Names: []string{"distance"},
		Values: [][]driver.Value{
			{1.25},
		},
	}, func(ctx context.Context) error {
		dist, err := db.Last(ctx)
		if err != nil {
			t.Fatalf("could not retrieve last distance: %+v", err)
		}
		if got, want := dist, 1.25; got != want {
			t.Fatalf("invalid last distance: got=%v, want=%v", got, want)
		}
		return nil
	})

	_ = fakedb.Run(context.Background(), fakedb.Rows{
		Names: []string{"distance"},
	}, func(ctx context.Context) error {
		_, err := db.Last(ctx)
		if err == nil {
			t.Fatalf("expected an error")
		}
		if got, want := err.Error(), `rangedb: no measurement in "fakedb" db`; got != want {
			t.Fatalf("invalid error:\ngot= %v\nwant=%v", got, want)
		}
		return nil
	})
}
