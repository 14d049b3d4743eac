package reservation

type Status string

const (
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusConfirmed      Status = "CONFIRMED"
	StatusCancelled      Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingPayment, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

// HoldsSlot reports whether a reservation in this status may occupy its slot.
func (s Status) HoldsSlot(policy SlotPolicy) bool {
	switch s {
	case StatusConfirmed:
		return true
	case StatusPendingPayment:
		return policy.HoldOnPending
	default:
		return false
	}
}
