package converter

import (
	"booking-core/internal/domain/reservation"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/pgconv"
)

func ReservationToInfra(res *reservation.Reservation, idempotencyKey string) sqlc.TryCreateReservationParams {
	return sqlc.TryCreateReservationParams{
		ID:             res.ID(),
		TenantID:       res.TenantID().String(),
		OfferingID:     res.OfferingID(),
		ResourceID:     pgconv.UUIDPtrToPgtype(res.ResourceID()),
		SlotDate:       pgconv.DateToPgtype(res.SlotDate().Time()),
		SlotKey:        res.SlotKey().String(),
		SlotHold:       pgconv.StringPtrToPgtype(res.SlotHold()),
		CustomerRef:    res.CustomerRef().String(),
		Extras:         res.Extras().Codes(),
		AmountCents:    res.Price().Cents(),
		Currency:       res.Price().Currency(),
		Status:         res.Status().String(),
		IdempotencyKey: pgconv.OptionalStringToPgtype(idempotencyKey),
		CreatedAt:      pgconv.TimeToPgtype(res.CreatedAt()),
		UpdatedAt:      pgconv.TimeToPgtype(res.UpdatedAt()),
	}
}

func ReservationStatusToInfra(res *reservation.Reservation) sqlc.UpdateReservationStatusParams {
	return sqlc.UpdateReservationStatusParams{
		TenantID:    res.TenantID().String(),
		ID:          res.ID(),
		Status:      res.Status().String(),
		SlotHold:    pgconv.StringPtrToPgtype(res.SlotHold()),
		ConfirmedAt: pgconv.TimePtrToPgtype(res.ConfirmedAt()),
		UpdatedAt:   pgconv.TimeToPgtype(res.UpdatedAt()),
	}
}

// ReservationToDomain rebuilds the aggregate from a stored row. Rows are
// written through the domain, so a validation failure here means corrupt data.
func ReservationToDomain(row sqlc.Reservations) (*reservation.Reservation, error) {
	tenantID, err := reservation.NewTenantID(row.TenantID)
	if err != nil {
		return nil, errs.Wrap(err, "stored tenant id")
	}
	customer, err := reservation.NewCustomerRef(row.CustomerRef)
	if err != nil {
		return nil, errs.Wrap(err, "stored customer ref")
	}
	extras, err := reservation.NewExtras(row.Extras)
	if err != nil {
		return nil, errs.Wrap(err, "stored extras")
	}
	price, err := reservation.NewMoney(row.AmountCents, row.Currency)
	if err != nil {
		return nil, errs.Wrap(err, "stored amount")
	}
	status := reservation.Status(row.Status)
	if !status.IsValid() {
		return nil, errs.Wrapf(reservation.ErrInvalidStatus, "stored status %q", row.Status)
	}

	return reservation.ReconstructReservation(
		row.ID,
		tenantID,
		row.OfferingID,
		pgconv.UUIDPtrFromPgtype(row.ResourceID),
		reservation.SlotDateFromTime(pgconv.DateFromPgtype(row.SlotDate)),
		reservation.SlotKey(row.SlotKey),
		row.SlotHold.Valid,
		customer,
		extras,
		price,
		status,
		pgconv.TimePtrFromPgtype(row.ConfirmedAt),
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}
