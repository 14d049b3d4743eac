package offering

import (
	"sort"
	"strings"

	"booking-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrEmptyOfferingName = errs.Define(errs.ErrValidation, "offering name cannot be empty")
	ErrNegativePrice     = errs.Define(errs.ErrValidation, "offering price cannot be negative")
	ErrUnknownExtra      = errs.Define(errs.ErrValidation, "unknown extra for offering")
	ErrOfferingInactive  = errs.Define(errs.ErrBusinessRule, "offering is not bookable")
)

// Offering is the catalog product a reservation is priced from.
type Offering struct {
	id         uuid.UUID
	tenantID   string
	name       string
	priceCents int64
	currency   string
	extras     map[string]int64
	active     bool
}

func NewOffering(id uuid.UUID, tenantID, name string, priceCents int64, currency string, extras map[string]int64, active bool) (*Offering, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyOfferingName
	}
	if priceCents < 0 {
		return nil, ErrNegativePrice
	}
	for _, p := range extras {
		if p < 0 {
			return nil, ErrNegativePrice
		}
	}

	copied := make(map[string]int64, len(extras))
	for k, v := range extras {
		copied[k] = v
	}

	return &Offering{
		id:         id,
		tenantID:   tenantID,
		name:       name,
		priceCents: priceCents,
		currency:   strings.ToUpper(currency),
		extras:     copied,
		active:     active,
	}, nil
}

func (o *Offering) EnsureBookable() error {
	if !o.active {
		return ErrOfferingInactive
	}
	return nil
}

// ExtraPrice returns the surcharge for an extra code.
func (o *Offering) ExtraPrice(code string) (int64, error) {
	p, ok := o.extras[code]
	if !ok {
		return 0, errs.Wrapf(ErrUnknownExtra, "extra %q", code)
	}
	return p, nil
}

func (o *Offering) ExtraCodes() []string {
	codes := make([]string, 0, len(o.extras))
	for k := range o.extras {
		codes = append(codes, k)
	}
	sort.Strings(codes)
	return codes
}

func (o *Offering) ID() uuid.UUID     { return o.id }
func (o *Offering) TenantID() string  { return o.tenantID }
func (o *Offering) Name() string      { return o.name }
func (o *Offering) PriceCents() int64 { return o.priceCents }
func (o *Offering) Currency() string  { return o.currency }
func (o *Offering) IsActive() bool    { return o.active }
