package converter

import (
	"booking-core/internal/domain/paymentevent"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/pkg/pgconv"
)

func PaymentEventToInfra(ev *paymentevent.PaymentEvent) sqlc.InsertPaymentEventParams {
	return sqlc.InsertPaymentEventParams{
		TenantID:  ev.TenantID,
		EventID:   ev.EventID,
		EventType: ev.EventType.String(),
		Payload:   ev.Payload,
		CreatedAt: pgconv.TimeToPgtype(ev.CreatedAt),
	}
}

func PaymentEventToDomain(row sqlc.PaymentEvents) *paymentevent.PaymentEvent {
	return &paymentevent.PaymentEvent{
		TenantID:      row.TenantID,
		EventID:       row.EventID,
		EventType:     paymentevent.Type(row.EventType),
		Status:        paymentevent.Status(row.Status),
		Payload:       row.Payload,
		Attempts:      row.Attempts,
		DeliveryCount: row.DeliveryCount,
		LastError:     pgconv.StringPtrFromPgtype(row.LastError),
		ClaimedAt:     pgconv.TimePtrFromPgtype(row.ClaimedAt),
		ProcessedAt:   pgconv.TimePtrFromPgtype(row.ProcessedAt),
		CreatedAt:     pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:     pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}

func StatusesToInfra(statuses []paymentevent.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}
