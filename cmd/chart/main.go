// Package main renders a natal chart offline: no gateway, no databases,
// built-in ephemeris and city table. Useful for eyeballing chart output
// and for generating fixtures.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"astro-whatsapp-bot/internal/astro"
	"astro-whatsapp-bot/internal/chart"
	"astro-whatsapp-bot/internal/dasha"
	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/ephemeris"
	ephstub "astro-whatsapp-bot/internal/ephemeris/stub"
	"astro-whatsapp-bot/internal/geocode"
	"astro-whatsapp-bot/internal/reading"
)

func main() {
	year := flag.Int("year", 0, "Birth year")
	month := flag.Int("month", 0, "Birth month (1-12)")
	day := flag.Int("day", 0, "Birth day")
	hour := flag.Int("hour", 12, "Birth hour (0-23)")
	minute := flag.Int("minute", 0, "Birth minute")
	offset := flag.Float64("offset", 0, "UTC offset in hours, e.g. 5.5")
	place := flag.String("place", "", "Birth place (looked up in the built-in city table)")
	lat := flag.Float64("lat", 0, "Birth latitude (used when --place is empty)")
	lon := flag.Float64("lon", 0, "Birth longitude (used when --place is empty)")
	showDasha := flag.Bool("dasha", false, "Also print the mahadasha reading")
	showNumerology := flag.Bool("numerology", false, "Also print the numerology reading")
	ephEndpoint := flag.String("ephemeris-endpoint", "", "Swiss Ephemeris sidecar URL (default: built-in approximate ephemeris)")
	flag.Parse()

	instant := domain.Instant{
		Year:   *year,
		Month:  *month,
		Day:    *day,
		Hour:   *hour,
		Minute: *minute,
		Offset: *offset,
	}
	if err := astro.ValidateInstant(instant); err != nil {
		fmt.Fprintf(os.Stderr, "invalid birth instant: %v\n", err)
		os.Exit(2)
	}

	ctx := context.Background()
	location := domain.GeoCoordinate{Latitude: *lat, Longitude: *lon}

	if *place != "" {
		resolved, err := geocode.NewStub().Resolve(ctx, *place)
		if err != nil {
			fmt.Fprintf(os.Stderr, "resolve place %q: %v\n", *place, err)
			os.Exit(2)
		}
		location = resolved.Location
		if !flagSet("offset") {
			instant.Offset = resolved.UTCOffset
		}
	}

	var eph ephemeris.Provider = ephstub.NewProvider()
	if *ephEndpoint != "" {
		eph = ephemeris.NewHTTPClient(*ephEndpoint)
	}

	assembler := chart.NewAssembler(chart.Options{
		Source:    eph,
		Ascendant: eph,
		Logger:    zap.NewNop().Sugar(),
	})

	c, err := assembler.Assemble(ctx, instant, location, domain.DefaultBodies, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "assemble chart: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(reading.RenderChartSummary(c))

	if *showDasha && c.BirthNakshatra != nil && c.CurrentDasha != nil {
		timeline, err := dasha.Timeline(c.BirthNakshatra.Index, 60)
		if err == nil {
			fmt.Println()
			fmt.Println(reading.RenderDashaReading(*c.BirthNakshatra, *c.CurrentDasha, timeline, instant.Year))
		}
	}

	if *showNumerology {
		fmt.Println()
		fmt.Println(reading.RenderNumerology(instant))
	}
}

// flagSet reports whether a flag was passed explicitly.
func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
