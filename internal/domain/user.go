package domain

// BirthDetails holds a user's birth data after geocoding.
type BirthDetails struct {
	Instant  Instant
	Place    string // free-text place as the user typed it
	Location GeoCoordinate
}

// UserProfile represents one WhatsApp user.
// Corresponds to user_profiles table in PostgreSQL.
type UserProfile struct {
	Phone     string // E.164 phone number, PRIMARY KEY
	Name      string
	Birth     *BirthDetails // nil until the onboarding flow completes
	Language  string        // BCP 47 tag, content is English-only for now
	CreatedAt int64         // Unix timestamp in milliseconds
	UpdatedAt int64
}
