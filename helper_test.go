package cashbook

import (
	"context"
	"errors"
	"iter"

	"github.com/etnz/cashbook/date"
	"github.com/etnz/cashbook/snapshot"
	"github.com/etnz/cashbook/storage"
	"github.com/shopspring/decimal"
)

// D is a helper for test to create decimals from const.
func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// day is a helper for test to create dates from const.
func day(s string) date.Date { return date.MustParse(s) }

var errDisk = errors.New("disk full")

// flaky is a backend that fails every operation while broken is set.
type flaky struct {
	storage.Backend
	broken bool
}

func newFlaky() *flaky { return &flaky{Backend: storage.NewMap()} }

func (f *flaky) Set(ctx context.Context, key, value string) error {
	if f.broken {
		return &storage.Error{Op: "set", Key: key, Err: errDisk}
	}
	return f.Backend.Set(ctx, key, value)
}

func (f *flaky) Get(ctx context.Context, key string) (string, error) {
	if f.broken {
		return "", &storage.Error{Op: "get", Key: key, Err: errDisk}
	}
	return f.Backend.Get(ctx, key)
}

func (f *flaky) Keys(ctx context.Context) ([]string, error) {
	if f.broken {
		return nil, &storage.Error{Op: "keys", Err: errDisk}
	}
	return f.Backend.Keys(ctx)
}

func newStore() *snapshot.Store { return snapshot.New(storage.NewMap()) }

// collect gathers the values of a sequence.
func collect[K, V any](seq iter.Seq2[K, V]) []V {
	var vs []V
	for _, v := range seq {
		vs = append(vs, v)
	}
	return vs
}
