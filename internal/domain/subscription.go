package domain

// Subscription is a daily-horoscope delivery subscription.
// Corresponds to subscriptions table in PostgreSQL.
type Subscription struct {
	Phone       string // PRIMARY KEY
	SignIndex   int    // 0-11, sign the horoscope is rendered for
	SendHourUTC int    // 0-23, delivery hour
	Active      bool
	CreatedAt   int64 // Unix timestamp in milliseconds
}
