package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

const DefaultTTL = 24 * time.Hour

// Fingerprint derives a stable key from the tenant, the operation and its
// semantic parameters. Map keys are encoded in sorted order at every level,
// so parameter order never changes the result; slices keep their order and
// callers sort set-like values first.
func Fingerprint(tenantID, operation string, params map[string]any) (string, error) {
	encoded, err := json.Marshal(params)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write([]byte(tenantID))
	h.Write([]byte{0})
	h.Write([]byte(operation))
	h.Write([]byte{0})
	h.Write(encoded)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Record is a stored operation result scoped to (tenant, key).
type Record struct {
	TenantID  string
	Key       string
	Operation string
	Status    Status
	Response  []byte
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (r *Record) IsCompleted() bool {
	return r.Status == StatusCompleted
}

func (r *Record) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
