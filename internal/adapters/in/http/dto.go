package http

import (
	"time"

	"orderdispatch/internal/core/application/usecases/queries"
	"orderdispatch/internal/core/domain/model/sweep"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type DeclineRequest struct {
	DriverID openapi_types.UUID `json:"driverId"`
}

type SweepReport struct {
	Mode         string    `json:"mode"`
	Now          time.Time `json:"now"`
	Checked      int       `json:"checked"`
	Assigned     int       `json:"assigned"`
	Rejected     int       `json:"rejected"`
	StillPending int       `json:"stillPending"`
	Errors       int       `json:"errors"`
	Failure      string    `json:"failure,omitempty"`
	Outcomes     []Outcome `json:"outcomes"`
}

type Outcome struct {
	OrderID  openapi_types.UUID  `json:"orderId"`
	Outcome  string              `json:"outcome"`
	DriverID *openapi_types.UUID `json:"driverId,omitempty"`
	Error    string              `json:"error,omitempty"`
}

type PendingOrder struct {
	ID               openapi_types.UUID  `json:"id"`
	CreatedAt        time.Time           `json:"createdAt"`
	DriverID         *openapi_types.UUID `json:"driverId,omitempty"`
	DriverAssignedAt *time.Time          `json:"driverAssignedAt,omitempty"`
	OfferRevokedAt   *time.Time          `json:"offerRevokedAt,omitempty"`
	PickupLocation   *Location           `json:"pickupLocation,omitempty"`
}

type Rejection struct {
	DriverID  openapi_types.UUID `json:"driverId"`
	Reason    string             `json:"reason"`
	CreatedAt time.Time          `json:"createdAt"`
}

func toSweepReport(r sweep.Report) SweepReport {
	resp := SweepReport{
		Mode:         string(r.Mode),
		Now:          r.Now,
		Checked:      r.Checked,
		Assigned:     r.Assigned,
		Rejected:     r.Rejected,
		StillPending: r.StillPending(),
		Errors:       r.Errors,
		Failure:      r.Failure,
		Outcomes:     make([]Outcome, len(r.Outcomes)),
	}

	for i, o := range r.Outcomes {
		resp.Outcomes[i] = Outcome{
			OrderID: o.OrderID.Google(),
			Outcome: string(o.Kind),
			Error:   o.Error,
		}
		if o.DriverID != nil {
			id := o.DriverID.Google()
			resp.Outcomes[i].DriverID = &id
		}
	}

	return resp
}

func toPendingOrders(orders []queries.GetPendingOrdersQueryResponse) []PendingOrder {
	resp := make([]PendingOrder, len(orders))
	for i, o := range orders {
		resp[i] = PendingOrder{
			ID:               o.ID.Google(),
			CreatedAt:        o.CreatedAt,
			DriverAssignedAt: o.DriverAssignedAt,
			OfferRevokedAt:   o.OfferRevokedAt,
		}
		if o.DriverID != nil {
			id := o.DriverID.Google()
			resp[i].DriverID = &id
		}
		if o.PickupLocation != nil {
			resp[i].PickupLocation = &Location{Lat: o.PickupLocation.Lat(), Lng: o.PickupLocation.Lng()}
		}
	}
	return resp
}

func toRejections(records []queries.GetOrderRejectionsQueryResponse) []Rejection {
	resp := make([]Rejection, len(records))
	for i, r := range records {
		resp[i] = Rejection{
			DriverID:  r.DriverID.Google(),
			Reason:    r.Reason.String(),
			CreatedAt: r.CreatedAt,
		}
	}
	return resp
}
