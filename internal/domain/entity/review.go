package entity

import (
	"time"
)

// Review is a customer's rating of the delivery man who carried a parcel.
type Review struct {
	ID            string    `json:"_id" firestore:"id" bson:"_id"`
	DeliveryManID string    `json:"deliveryMan" firestore:"deliveryManId" bson:"deliveryManId"`
	ParcelID      string    `json:"parcelId,omitempty" firestore:"parcelId" bson:"parcelId"`
	ReviewerName  string    `json:"reviewerName,omitempty" firestore:"reviewerName" bson:"reviewerName"`
	ReviewerEmail string    `json:"reviewerEmail,omitempty" firestore:"reviewerEmail" bson:"reviewerEmail"`
	ReviewerImage string    `json:"reviewerImage,omitempty" firestore:"reviewerImage" bson:"reviewerImage"`
	Rating        int       `json:"rating" firestore:"rating" bson:"rating"`
	Feedback      string    `json:"feedback,omitempty" firestore:"feedback" bson:"feedback"`
	CreatedAt     time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
}
