//go:build unit || e2e

package dbtest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// offerings every suite can rely on after ResetDB
var (
	DefaultOfferingID   = uuid.MustParse("0b6f4a52-7c1e-4a57-9e55-1f2d3c4b5a60")
	DefaultTenantID     = "acme"
	DefaultPriceCents   = int64(10000)
	DefaultLunchCents   = int64(1500)
	DefaultParkingCents = int64(500)
)

func CreateTestOffering(t *testing.T, db DBLike, tenantID, name string, priceCents int64, extras map[string]int64) uuid.UUID {
	t.Helper()

	id := uuid.New()
	raw, err := json.Marshal(extras)
	require.NoError(t, err)

	_, err = db.Exec(context.Background(),
		"INSERT INTO offerings (id, tenant_id, name, price_cents, currency, extras) VALUES ($1, $2, $3, $4, 'JPY', $5)",
		id, tenantID, name, priceCents, raw)
	require.NoError(t, err)

	return id
}

// SoftDeleteOffering hides an offering the way catalog removal does.
func SoftDeleteOffering(t *testing.T, db DBLike, id uuid.UUID) {
	t.Helper()

	_, err := db.Exec(context.Background(), "UPDATE offerings SET deleted_at = now() WHERE id = $1", id)
	require.NoError(t, err)
}

func CountReservations(t *testing.T, db DBLike, tenantID string, slotDate string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM reservations WHERE tenant_id = $1 AND slot_date = $2::date", tenantID, slotDate).Scan(&n)
	require.NoError(t, err)
	return n
}

func ReservationStatus(t *testing.T, db DBLike, id uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), "SELECT status FROM reservations WHERE id = $1", id).Scan(&status)
	require.NoError(t, err)
	return status
}

func PaymentEventState(t *testing.T, db DBLike, tenantID, eventID string) (status string, deliveries int32) {
	t.Helper()

	err := db.QueryRow(context.Background(),
		"SELECT status, delivery_count FROM payment_events WHERE tenant_id = $1 AND event_id = $2", tenantID, eventID).
		Scan(&status, &deliveries)
	require.NoError(t, err)
	return status, deliveries
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	extras, _ := json.Marshal(map[string]int64{"lunch": DefaultLunchCents, "parking": DefaultParkingCents})
	_, err := pool.Exec(ctx, `
		INSERT INTO offerings (id, tenant_id, name, price_cents, currency, extras)
		VALUES ($1, $2, 'Half-day boat tour', $3, 'JPY', $4)
		ON CONFLICT (id) DO NOTHING;
	`, DefaultOfferingID, DefaultTenantID, DefaultPriceCents, extras)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
