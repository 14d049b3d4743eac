package paymentevent

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusProcessed  Status = "PROCESSED"
	StatusDuplicate  Status = "DUPLICATE"
	StatusFailed     Status = "FAILED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusProcessed, StatusDuplicate, StatusFailed:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusProcessed || s == StatusFailed || s == StatusDuplicate
}

var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusDuplicate},
	StatusProcessing: {StatusProcessed, StatusFailed, StatusPending},
	// FAILED -> PROCESSING is the operator replay path.
	StatusFailed: {StatusProcessing},
}

// CanTransition reports whether the processor may move an event from s to next.
// PROCESSING -> PENDING releases a claim after an infrastructure failure.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Outcome is what a delivery attempt tells the caller.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

func (o Outcome) String() string {
	return string(o)
}

type Type string

const (
	TypeCheckoutCompleted        Type = "checkout.completed"
	TypeCheckoutSessionCompleted Type = "checkout.session.completed"
	TypePaymentCompleted         Type = "payment.completed"
	TypeCheckoutExpired          Type = "checkout.expired"
	TypeCheckoutSessionExpired   Type = "checkout.session.expired"
)

func (t Type) String() string {
	return string(t)
}

// ConfirmsPayment covers the provider names for a completed checkout.
func (t Type) ConfirmsPayment() bool {
	switch t {
	case TypeCheckoutCompleted, TypeCheckoutSessionCompleted, TypePaymentCompleted:
		return true
	}
	return false
}

func (t Type) ExpiresCheckout() bool {
	return t == TypeCheckoutExpired || t == TypeCheckoutSessionExpired
}

func (t Type) IsHandled() bool {
	return t.ConfirmsPayment() || t.ExpiresCheckout()
}
