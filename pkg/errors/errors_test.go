package errorsUtils_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	errorsUtils "github.com/Egor213/ExceptionSieve/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapPathErr(t *testing.T) {
	base := errors.New("boom")

	wrapped := errorsUtils.WrapPathErr(base)

	assert.ErrorIs(t, wrapped, base)
	assert.True(t, strings.Contains(wrapped.Error(), "TestWrapPathErr"))
	assert.Nil(t, errorsUtils.WrapPathErr(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "not null violation", err: &pgconn.PgError{Code: "23502"}, want: false},
		{name: "plain error", err: errors.New("db down"), want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errorsUtils.IsUniqueViolation(tc.err))
		})
	}
}
