package model

import "time"

// User represents an account as stored in the `users` table.  The email
// address is the login identity and is unique across the table.  Staff
// accounts have platform-wide read/update rights but cannot author
// courses or lessons.
//
// Fields:
//  ID        – primary key identifier of the user.
//  Email     – unique email address.
//  IsStaff   – elevated platform role.
//  IsActive  – inactive accounts are rejected by the identity middleware.
//  Phone     – optional contact phone.
//  City      – optional city.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type User struct {
	ID        uint64    `json:"id"`         // users.id
	Email     string    `json:"email"`      // users.email
	IsStaff   bool      `json:"is_staff"`   // users.is_staff
	IsActive  bool      `json:"is_active"`  // users.is_active
	Phone     *string   `json:"phone"`      // users.phone (nullable)
	City      *string   `json:"city"`       // users.city (nullable)
	CreatedAt time.Time `json:"created_at"` // users.created_at
	UpdatedAt time.Time `json:"updated_at"` // users.updated_at
}
