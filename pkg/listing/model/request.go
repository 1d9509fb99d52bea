package model

import "time"

// DeliveryMetadata describes how a broadcast listing reached this node.
type DeliveryMetadata struct {
	MsgID         string
	Sender        string
	Market        string
	DaysRetention int
	Expiration    time.Time
	Sent          time.Time
	Received      time.Time
}

// ListingCreateRequest is a received listing ready to be stored.
type ListingCreateRequest struct {
	Hash        string
	MsgID       string
	Seller      string
	Market      string
	MarketID    string
	ExpiryTime  int
	PostedAt    time.Time
	ExpiredAt   time.Time
	ReceivedAt  time.Time
	GeneratedAt time.Time

	ItemInformation      *ItemInformation
	PaymentInformation   *PaymentInformation
	MessagingInformation []MessagingInformation
	Objects              []ListingObject
}
