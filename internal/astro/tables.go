package astro

import "astro-whatsapp-bot/internal/domain"

// SignNames is the canonical 12-sign table, Aries first.
var SignNames = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer",
	"Leo", "Virgo", "Libra", "Scorpio",
	"Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// NakshatraEntry is one of the 27 lunar mansions.
type NakshatraEntry struct {
	Name string
	Lord domain.Body
}

// Nakshatras is the canonical 27-entry table, Ashwini first.
// Lords repeat in the fixed 9-planet Vimshottari order, so
// Nakshatras[i].Lord == Nakshatras[i%9].Lord holds by construction.
var Nakshatras = [27]NakshatraEntry{
	{"Ashwini", domain.BodyKetu},
	{"Bharani", domain.BodyVenus},
	{"Krittika", domain.BodySun},
	{"Rohini", domain.BodyMoon},
	{"Mrigashira", domain.BodyMars},
	{"Ardra", domain.BodyRahu},
	{"Punarvasu", domain.BodyJupiter},
	{"Pushya", domain.BodySaturn},
	{"Ashlesha", domain.BodyMercury},
	{"Magha", domain.BodyKetu},
	{"Purva Phalguni", domain.BodyVenus},
	{"Uttara Phalguni", domain.BodySun},
	{"Hasta", domain.BodyMoon},
	{"Chitra", domain.BodyMars},
	{"Swati", domain.BodyRahu},
	{"Vishakha", domain.BodyJupiter},
	{"Anuradha", domain.BodySaturn},
	{"Jyeshtha", domain.BodyMercury},
	{"Mula", domain.BodyKetu},
	{"Purva Ashadha", domain.BodyVenus},
	{"Uttara Ashadha", domain.BodySun},
	{"Shravana", domain.BodyMoon},
	{"Dhanishta", domain.BodyMars},
	{"Shatabhisha", domain.BodyRahu},
	{"Purva Bhadrapada", domain.BodyJupiter},
	{"Uttara Bhadrapada", domain.BodySaturn},
	{"Revati", domain.BodyMercury},
}
