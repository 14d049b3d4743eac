package reservation

import (
	"booking-core/internal/domain/offering"
)

type PriceCalculator interface {
	Calculate(off *offering.Offering, extras Extras) (Money, error)
}

// DefaultPriceCalculator charges the offering base price plus each selected extra.
type DefaultPriceCalculator struct{}

func NewDefaultPriceCalculator() *DefaultPriceCalculator {
	return &DefaultPriceCalculator{}
}

func (pc *DefaultPriceCalculator) Calculate(off *offering.Offering, extras Extras) (Money, error) {
	total := off.PriceCents()
	for _, code := range extras.Codes() {
		p, err := off.ExtraPrice(code)
		if err != nil {
			return Money{}, err
		}
		total += p
	}
	return NewMoney(total, off.Currency())
}
