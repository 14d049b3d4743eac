package reservation

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"booking-core/internal/pkg/errs"
)

const (
	slotDateLayout       = "2006-01-02"
	maxCustomerRefLength = 128
	maxExtras            = 32
)

var tenantIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

type TenantID string

func NewTenantID(raw string) (TenantID, error) {
	v := strings.TrimSpace(raw)
	if !tenantIDPattern.MatchString(v) {
		return "", errs.NewValidationError("tenant_id", "must be a lowercase slug of at most 64 characters")
	}
	return TenantID(v), nil
}

func (t TenantID) String() string { return string(t) }

// SlotDate is a calendar day with no time-of-day or zone component.
type SlotDate struct {
	t time.Time
}

func NewSlotDate(year int, month time.Month, day int) SlotDate {
	return SlotDate{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseSlotDate(raw string) (SlotDate, error) {
	t, err := time.Parse(slotDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return SlotDate{}, errs.NewValidationError("slot_date", "must be formatted as YYYY-MM-DD")
	}
	return SlotDate{t: t}, nil
}

func SlotDateFromTime(t time.Time) SlotDate {
	y, m, d := t.Date()
	return NewSlotDate(y, m, d)
}

func (d SlotDate) Time() time.Time { return d.t }

func (d SlotDate) IsZero() bool { return d.t.IsZero() }

func (d SlotDate) String() string { return d.t.Format(slotDateLayout) }

// Before compares calendar days in UTC.
func (d SlotDate) Before(other SlotDate) bool { return d.t.Before(other.t) }

type Money struct {
	cents    int64
	currency string
}

func NewMoney(cents int64, currency string) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValidationError("amount", "cannot be negative")
	}
	return Money{cents: cents, currency: strings.ToUpper(currency)}, nil
}

func (m Money) Cents() int64 { return m.cents }

func (m Money) Currency() string { return m.currency }

func (m Money) Add(cents int64) Money {
	return Money{cents: m.cents + cents, currency: m.currency}
}

func (m Money) Equal(other Money) bool {
	return m.cents == other.cents && (m.currency == "" || other.currency == "" || m.currency == other.currency)
}

type CustomerRef string

func NewCustomerRef(raw string) (CustomerRef, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", errs.NewValidationError("customer_ref", "is required")
	}
	if len(v) > maxCustomerRefLength {
		return "", errs.NewValidationError("customer_ref", "is too long")
	}
	return CustomerRef(v), nil
}

func (c CustomerRef) String() string { return string(c) }

// Extras is a normalized (trimmed, de-duplicated, sorted) set of extra codes.
type Extras struct {
	codes []string
}

func NewExtras(raw []string) (Extras, error) {
	if len(raw) > maxExtras {
		return Extras{}, errs.NewValidationError("extras", "too many extras selected")
	}
	seen := make(map[string]struct{}, len(raw))
	codes := make([]string, 0, len(raw))
	for _, c := range raw {
		c = strings.TrimSpace(c)
		if c == "" {
			return Extras{}, errs.NewValidationError("extras", "extra code cannot be empty")
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return Extras{codes: codes}, nil
}

func (e Extras) Codes() []string {
	out := make([]string, len(e.codes))
	copy(out, e.codes)
	return out
}

func (e Extras) Len() int { return len(e.codes) }
