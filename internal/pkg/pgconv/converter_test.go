//go:build unit

package pgconv_test

import (
	"testing"
	"time"

	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDConversions(t *testing.T) {
	id := uuid.New()

	assert.Nil(t, pgconv.UUIDPtrFromPgtype(pgtype.UUID{}))
	got := pgconv.UUIDPtrFromPgtype(pgconv.UUIDToPgtype(id))
	require.NotNil(t, got)
	assert.Equal(t, id, *got)
	assert.False(t, pgconv.UUIDPtrToPgtype(nil).Valid)
}

func TestDateConversions(t *testing.T) {
	local := time.Date(2026, 6, 1, 23, 30, 0, 0, time.FixedZone("JST", 9*3600))

	pd := pgconv.DateToPgtype(local)
	assert.True(t, pd.Valid)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), pgconv.DateFromPgtype(pd))
	assert.True(t, pgconv.DateFromPgtype(pgtype.Date{}).IsZero())
}

func TestOptionalValues(t *testing.T) {
	assert.False(t, pgconv.OptionalStringToPgtype("").Valid)
	assert.Equal(t, "k", pgconv.OptionalStringToPgtype("k").String)

	assert.Nil(t, pgconv.TimePtrFromPgtype(pgtype.Timestamptz{}))
	now := time.Now()
	got := pgconv.TimePtrFromPgtype(pgconv.TimePtrToPgtype(&now))
	require.NotNil(t, got)
	assert.True(t, now.Equal(*got))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, pgconv.IsNoRows(pgx.ErrNoRows))
	assert.True(t, pgconv.IsNoRows(errs.Wrap(pgx.ErrNoRows, "lookup")))
	assert.False(t, pgconv.IsNoRows(errs.New("other")))
}
