package model

import (
	"strings"
	"time"
)

// PaymentMethod enumerates how a course purchase is settled.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// ParsePaymentMethod accepts the canonical names as well as the legacy
// numeric codes "1" (cash) and "2" (card).
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash", "1":
		return PaymentCash, true
	case "card", "2":
		return PaymentCard, true
	}
	return "", false
}

// Payment records a purchase attempt for a course.  Session is only ever
// set for card payments and IsSuccessful only moves from false to true
// after the gateway confirms the session.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – paying user (nullable).
//  CourseID      – purchased course.
//  PaymentDate   – stamped at creation, never updated.
//  PaymentMethod – cash or card.
//  IsSuccessful  – gateway-confirmed success flag.
//  Session       – external checkout session id (nullable).
type Payment struct {
	ID            uint64        `json:"id"`             // payments.id
	UserID        *uint64       `json:"user"`           // payments.user_id (nullable)
	CourseID      uint64        `json:"course"`         // payments.course_id
	PaymentDate   time.Time     `json:"payment_date"`   // payments.payment_date
	PaymentMethod PaymentMethod `json:"payment_method"` // payments.payment_method
	IsSuccessful  bool          `json:"is_successful"`  // payments.is_successful
	Session       *string       `json:"session"`        // payments.session (nullable)
}

// State reports the lifecycle state derived from the stored fields.
func (p *Payment) State() string {
	switch {
	case p.IsSuccessful:
		return "confirmed"
	case p.Session != nil:
		return "pending"
	default:
		return "created"
	}
}
