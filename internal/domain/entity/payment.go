package entity

import (
	"time"
)

type Payment struct {
	ID            string    `json:"_id" firestore:"id" bson:"_id"`
	ParcelID      string    `json:"parcelId" firestore:"parcelId" bson:"parcelId"`
	Email         string    `json:"email" firestore:"email" bson:"email"`
	Name          string    `json:"name,omitempty" firestore:"name" bson:"name"`
	Amount        float64   `json:"amount" firestore:"amount" bson:"amount"`
	Currency      string    `json:"currency" firestore:"currency" bson:"currency"`
	TransactionID string    `json:"transactionId" firestore:"transactionId" bson:"transactionId"`
	CreatedAt     time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
}
