package domain

// ReadingKind identifies the type of generated reading.
type ReadingKind string

const (
	ReadingHoroscope     ReadingKind = "horoscope"
	ReadingBirthChart    ReadingKind = "birth_chart"
	ReadingDasha         ReadingKind = "dasha"
	ReadingCompatibility ReadingKind = "compatibility"
	ReadingNumerology    ReadingKind = "numerology"
)

// Reading is one generated piece of content delivered to a user.
// Corresponds to readings table in PostgreSQL.
type Reading struct {
	ReadingID string // PRIMARY KEY, deterministic hash
	ShortCode string // base58 user-facing reference
	Phone     string
	Kind      ReadingKind
	Text      string
	ChartID   *string // chart the reading was derived from (nullable)
	CreatedAt int64   // Unix timestamp in milliseconds
}
