package model

import "time"

// User is the opaque identity that bookings, enrollments and sessions hang
// off.  Sign-up and sign-in live outside this service.
type User struct {
	ID        uint64    // users.id
	Email     string    // users.email
	CreatedAt time.Time // users.created_at
}
