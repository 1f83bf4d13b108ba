package models

import "time"

// GatewayResponse is the decoded payload returned by the payment
// provider. Data carries the provider's nested fields; the raw map is
// kept so reconciliation has the full payload.
type GatewayResponse struct {
	Status  string                 `bson:"status" json:"status"`
	Message string                 `bson:"message,omitempty" json:"message,omitempty"`
	Data    map[string]interface{} `bson:"data,omitempty" json:"data,omitempty"`
}

// Payment records one attempt to collect money for a booking. A booking
// may accumulate several payments if the guest re-initiates after a
// failure; rows are never deduplicated.
type Payment struct {
	ID             string           `bson:"id" json:"id"`
	BookingID      string           `bson:"booking_id,omitempty" json:"booking_id,omitempty"`
	Amount         float64          `bson:"amount" json:"amount"`
	Email          string           `bson:"email" json:"email"`
	Reference      string           `bson:"reference" json:"reference"`           // client-generated correlation id
	TransactionID  string           `bson:"transaction_id" json:"transaction_id"` // gateway-assigned tx_ref
	Status         string           `bson:"status" json:"status"`
	InitResponse   *GatewayResponse `bson:"init_response,omitempty" json:"-"`
	VerifyResponse *GatewayResponse `bson:"verify_response,omitempty" json:"-"`
	CreatedAt      time.Time        `bson:"created_at" json:"created_at"`
	PaidAt         *time.Time       `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
}
