package model

import "time"

// Booking records an advance table reservation taken over phone or
// web.  Bookings are informational for the staff; they do not open
// a session by themselves.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – restaurant the booking was made at.
//  TableID      – assigned table, nil until the staff picks one.
//  Name         – guest name.
//  Phone        – contact phone number.
//  Guests       – party size.
//  BookedFor    – reserved date and time.
//  Note         – optional free-text note.
//  CreatedAt    – creation timestamp.
type Booking struct {
	ID           uint64    // bookings.id
	RestaurantID uint64    // bookings.restaurant_id
	TableID      *uint64   // bookings.table_id (nullable)
	Name         string    // bookings.name
	Phone        string    // bookings.phone
	Guests       uint32    // bookings.guests
	BookedFor    time.Time // bookings.booked_for
	Note         *string   // bookings.note (nullable)
	CreatedAt    time.Time // bookings.created_at
}
