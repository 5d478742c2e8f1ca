package entity

import (
	"fmt"
	"time"

	"parcelmama/pkg/errors"
)

type Customer struct {
	Name  string `json:"name" firestore:"name" bson:"name"`
	Email string `json:"email" firestore:"email" bson:"email"`
	Phone string `json:"phone" firestore:"phone" bson:"phone"`
}

type Parcel struct {
	ID       string   `json:"_id" firestore:"id" bson:"_id"`
	Customer Customer `json:"customer" firestore:"customer" bson:"customer"`

	ParcelType            string  `json:"parcelType" firestore:"parcelType" bson:"parcelType"`
	ParcelWeight          int     `json:"parcelWeight" firestore:"parcelWeight" bson:"parcelWeight"`
	ReceiverName          string  `json:"receiverName" firestore:"receiverName" bson:"receiverName"`
	ReceiverPhone         string  `json:"receiverPhone" firestore:"receiverPhone" bson:"receiverPhone"`
	DeliveryAddress       string  `json:"deliveryAddress" firestore:"deliveryAddress" bson:"deliveryAddress"`
	RequestedDeliveryDate string  `json:"requestedDeliveryDate" firestore:"requestedDeliveryDate" bson:"requestedDeliveryDate"`
	Latitude              float64 `json:"latitude" firestore:"latitude" bson:"latitude"`
	Longitude             float64 `json:"longitude" firestore:"longitude" bson:"longitude"`

	// Price is fixed at booking time.
	Price float64 `json:"price" firestore:"price" bson:"price"`

	Status      ParcelStatus `json:"status" firestore:"status" bson:"status"`
	BookingDate time.Time    `json:"bookingDate" firestore:"bookingDate" bson:"bookingDate"`

	// Empty until the parcel leaves pending.
	DeliveryManID string `json:"deliveryManId" firestore:"deliveryManId" bson:"deliveryManId"`
	ApprDeliDate  string `json:"apprDeliDate" firestore:"apprDeliDate" bson:"apprDeliDate"`

	// CreditPending is set while the delivery man's delivered count still owes this parcel.
	CreditPending bool `json:"-" firestore:"creditPending" bson:"creditPending"`

	Version   int64     `json:"-" firestore:"version" bson:"version"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt" bson:"updatedAt"`
}

// ParcelPatch carries the customer-editable fields of a parcel. Status,
// price, assignment and booking data are managed by the lifecycle operations.
type ParcelPatch struct {
	CustomerName          *string  `json:"customerName,omitempty"`
	CustomerPhone         *string  `json:"customerPhone,omitempty"`
	ParcelType            *string  `json:"parcelType,omitempty"`
	ReceiverName          *string  `json:"receiverName,omitempty"`
	ReceiverPhone         *string  `json:"receiverPhone,omitempty"`
	DeliveryAddress       *string  `json:"deliveryAddress,omitempty"`
	RequestedDeliveryDate *string  `json:"requestedDeliveryDate,omitempty"`
	Latitude              *float64 `json:"latitude,omitempty"`
	Longitude             *float64 `json:"longitude,omitempty"`
}

func (p ParcelPatch) IsEmpty() bool {
	return p.CustomerName == nil && p.CustomerPhone == nil && p.ParcelType == nil &&
		p.ReceiverName == nil && p.ReceiverPhone == nil && p.DeliveryAddress == nil &&
		p.RequestedDeliveryDate == nil && p.Latitude == nil && p.Longitude == nil
}

func (p *Parcel) Clone() *Parcel {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

func (p *Parcel) transitionError(to ParcelStatus) error {
	return errors.Conflict(fmt.Sprintf("parcel %s cannot move from %q to %q", p.ID, p.Status, to), nil)
}

// Cancel reports whether the status changed. Cancelling a cancelled parcel is a no-op.
func (p *Parcel) Cancel() (bool, error) {
	if p.Status == StatusCancelled {
		return false, nil
	}
	if !p.Status.CanTransitionTo(StatusCancelled) {
		return false, p.transitionError(StatusCancelled)
	}
	p.Status = StatusCancelled
	return true, nil
}

// Assign binds a delivery man and an approximate delivery date and puts the parcel on the way.
func (p *Parcel) Assign(deliveryManID, approximateDate string) (bool, error) {
	if deliveryManID == "" {
		return false, errors.Validation("delivery man id is required", nil)
	}
	if !p.Status.CanTransitionTo(StatusOnTheWay) {
		return false, p.transitionError(StatusOnTheWay)
	}
	p.DeliveryManID = deliveryManID
	p.ApprDeliDate = approximateDate
	p.Status = StatusOnTheWay
	return true, nil
}

// MarkDelivered reports false without error when the parcel was already delivered.
// A parcel with an assignee becomes owed a delivered-count credit.
func (p *Parcel) MarkDelivered() (bool, error) {
	if p.Status == StatusDelivered {
		return false, nil
	}
	if !p.Status.CanTransitionTo(StatusDelivered) {
		return false, p.transitionError(StatusDelivered)
	}
	p.Status = StatusDelivered
	p.CreditPending = p.DeliveryManID != ""
	return true, nil
}

// ClaimCredit takes the pending credit. Within one conditional write only one caller can win it.
func (p *Parcel) ClaimCredit() bool {
	if !p.CreditPending {
		return false
	}
	p.CreditPending = false
	return true
}

// ReleaseCredit hands a claimed credit back after the counter update failed.
func (p *Parcel) ReleaseCredit() bool {
	if p.CreditPending || p.Status != StatusDelivered || p.DeliveryManID == "" {
		return false
	}
	p.CreditPending = true
	return true
}

func (p *Parcel) ApplyPatch(patch ParcelPatch) (bool, error) {
	if patch.IsEmpty() {
		return false, errors.Validation("no updatable fields supplied", nil)
	}
	if p.Status.IsTerminal() {
		return false, errors.Conflict(fmt.Sprintf("parcel %s is %s and can no longer be edited", p.ID, p.Status), nil)
	}

	changed := false
	setString := func(dst *string, src *string) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = true
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = true
		}
	}

	setString(&p.Customer.Name, patch.CustomerName)
	setString(&p.Customer.Phone, patch.CustomerPhone)
	setString(&p.ParcelType, patch.ParcelType)
	setString(&p.ReceiverName, patch.ReceiverName)
	setString(&p.ReceiverPhone, patch.ReceiverPhone)
	setString(&p.DeliveryAddress, patch.DeliveryAddress)
	setString(&p.RequestedDeliveryDate, patch.RequestedDeliveryDate)
	setFloat(&p.Latitude, patch.Latitude)
	setFloat(&p.Longitude, patch.Longitude)

	return changed, nil
}
