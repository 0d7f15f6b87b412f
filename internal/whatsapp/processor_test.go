package whatsapp

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astro-whatsapp-bot/internal/chart"
	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/ephemeris/stub"
	"astro-whatsapp-bot/internal/geocode"
	"astro-whatsapp-bot/internal/session"
	"astro-whatsapp-bot/internal/storage/memory"
)

const testPhone = "+919876543210"

var fixedNow = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

// captureSender records outbound messages instead of delivering them.
type captureSender struct {
	mu   sync.Mutex
	sent []domain.OutboundMessage
}

func (c *captureSender) Send(_ context.Context, msg domain.OutboundMessage) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return fmt.Sprintf("out-%d", len(c.sent)), nil
}

func (c *captureSender) last() domain.OutboundMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sent) == 0 {
		return domain.OutboundMessage{}
	}
	return c.sent[len(c.sent)-1]
}

type procEnv struct {
	processor *Processor
	sender    *captureSender
	eph       *stub.Provider
	users     *memory.UserProfileStore
	readings  *memory.ReadingStore
	subs      *memory.SubscriptionStore
	events    *memory.MessageEventStore
	sessions  *session.MemoryStore
}

func newProcEnv(t *testing.T) *procEnv {
	t.Helper()

	eph := stub.NewProvider()
	env := &procEnv{
		sender:   &captureSender{},
		eph:      eph,
		users:    memory.NewUserProfileStore(),
		readings: memory.NewReadingStore(),
		subs:     memory.NewSubscriptionStore(),
		events:   memory.NewMessageEventStore(),
		sessions: session.NewMemoryStore(time.Minute),
	}
	env.processor = NewProcessor(ProcessorOptions{
		Assembler:     chart.NewAssembler(chart.Options{Source: eph, Ascendant: eph}),
		Geocoder:      geocode.NewStub(),
		Sessions:      env.sessions,
		Users:         env.users,
		Readings:      env.readings,
		Subscriptions: env.subs,
		Events:        env.events,
		Sender:        env.sender,
		Now:           func() time.Time { return fixedNow },
	})
	return env
}

// say processes one inbound message and returns the reply text.
func (e *procEnv) say(t *testing.T, text string) string {
	t.Helper()
	err := e.processor.Process(context.Background(), domain.InboundMessage{
		MessageID:   fmt.Sprintf("in-%d", len(e.sender.sent)),
		From:        testPhone,
		Text:        text,
		TimestampMs: fixedNow.UnixMilli(),
	})
	require.NoError(t, err)
	return e.sender.last().Text
}

// seedProfile stores a complete user profile so birth-gated intents answer
// without the collection flow.
func (e *procEnv) seedProfile(t *testing.T) {
	t.Helper()
	err := e.users.Upsert(context.Background(), &domain.UserProfile{
		Phone:    testPhone,
		Language: "en",
		Birth: &domain.BirthDetails{
			Instant:  domain.Instant{Year: 1990, Month: 6, Day: 15, Hour: 10, Minute: 30, Offset: 5.5},
			Place:    "New Delhi, India",
			Location: domain.GeoCoordinate{Latitude: 28.6139, Longitude: 77.2090},
		},
		CreatedAt: fixedNow.UnixMilli(),
		UpdatedAt: fixedNow.UnixMilli(),
	})
	require.NoError(t, err)
}

func TestProcessor_Help(t *testing.T) {
	env := newProcEnv(t)
	reply := env.say(t, "hi")
	assert.Contains(t, reply, "*chart*")
	assert.Contains(t, reply, "*subscribe*")
}

func TestProcessor_UnknownIntent(t *testing.T) {
	env := newProcEnv(t)
	reply := env.say(t, "what is my future")
	assert.Contains(t, reply, "I didn't understand")
}

func TestProcessor_HoroscopeWithSign(t *testing.T) {
	env := newProcEnv(t)

	reply := env.say(t, "horoscope leo")
	assert.Contains(t, reply, "Leo")

	saved, err := env.readings.GetByPhone(context.Background(), testPhone, 10)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, domain.ReadingHoroscope, saved[0].Kind)
	assert.Equal(t, reply, saved[0].Text)
	assert.NotEmpty(t, saved[0].ShortCode)
}

func TestProcessor_HoroscopeUnknownSign(t *testing.T) {
	env := newProcEnv(t)
	reply := env.say(t, "horoscope ophiuchus")
	assert.Contains(t, reply, "ophiuchus")

	saved, err := env.readings.GetByPhone(context.Background(), testPhone, 10)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestProcessor_BirthFlowToChart(t *testing.T) {
	env := newProcEnv(t)
	ctx := context.Background()

	reply := env.say(t, "chart")
	assert.Contains(t, reply, "birth date")

	reply = env.say(t, "15.06.1990")
	assert.Contains(t, reply, "What time")

	reply = env.say(t, "10:30")
	assert.Contains(t, reply, "where were you born")

	reply = env.say(t, "new delhi")
	assert.Contains(t, reply, "Saved:")
	assert.Contains(t, reply, "Birth Chart")

	profile, err := env.users.GetByPhone(ctx, testPhone)
	require.NoError(t, err)
	require.NotNil(t, profile.Birth)
	assert.Equal(t, 1990, profile.Birth.Instant.Year)
	assert.Equal(t, 10, profile.Birth.Instant.Hour)
	// Offset came from the geocoded place.
	assert.InDelta(t, 5.5, profile.Birth.Instant.Offset, 1e-9)
	assert.Equal(t, "New Delhi, India", profile.Birth.Place)

	// The flow is finished.
	_, err = env.sessions.Get(ctx, testPhone)
	assert.ErrorIs(t, err, session.ErrNotFound)

	saved, err := env.readings.GetByPhone(ctx, testPhone, 10)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, domain.ReadingBirthChart, saved[0].Kind)
	require.NotNil(t, saved[0].ChartID)
}

func TestProcessor_FlowExplicitOffsetWins(t *testing.T) {
	env := newProcEnv(t)

	env.say(t, "chart")
	env.say(t, "15.06.1990")
	env.say(t, "10:30 +1")
	env.say(t, "new delhi")

	profile, err := env.users.GetByPhone(context.Background(), testPhone)
	require.NoError(t, err)
	require.NotNil(t, profile.Birth)
	assert.InDelta(t, 1.0, profile.Birth.Instant.Offset, 1e-9)
}

func TestProcessor_FlowInvalidDate(t *testing.T) {
	env := newProcEnv(t)
	ctx := context.Background()

	env.say(t, "chart")
	reply := env.say(t, "sometime in june")
	assert.Contains(t, reply, "DD.MM.YYYY")

	conv, err := env.sessions.Get(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, session.StepAwaitDate, conv.Step)
}

func TestProcessor_FlowCancel(t *testing.T) {
	env := newProcEnv(t)
	ctx := context.Background()

	env.say(t, "chart")
	reply := env.say(t, "cancel")
	assert.Contains(t, reply, "Cancelled")

	_, err := env.sessions.Get(ctx, testPhone)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestProcessor_FlowUnknownPlace(t *testing.T) {
	env := newProcEnv(t)
	ctx := context.Background()

	env.say(t, "chart")
	env.say(t, "15.06.1990")
	env.say(t, "10:30")
	reply := env.say(t, "atlantis")
	assert.Contains(t, reply, "couldn't find")

	// Still waiting for a resolvable place.
	conv, err := env.sessions.Get(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, session.StepAwaitPlace, conv.Step)
}

func TestProcessor_Dasha(t *testing.T) {
	env := newProcEnv(t)
	env.seedProfile(t)

	reply := env.say(t, "dasha")
	assert.Contains(t, reply, "mahadasha")
	assert.Contains(t, reply, "Timeline:")

	saved, err := env.readings.GetByPhone(context.Background(), testPhone, 10)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, domain.ReadingDasha, saved[0].Kind)
}

func TestProcessor_MatchWithArg(t *testing.T) {
	env := newProcEnv(t)
	env.seedProfile(t)

	reply := env.say(t, "match 22.11.1992")
	assert.Contains(t, reply, "/ 36")

	saved, err := env.readings.GetByPhone(context.Background(), testPhone, 10)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, domain.ReadingCompatibility, saved[0].Kind)
}

func TestProcessor_MatchFlow(t *testing.T) {
	env := newProcEnv(t)
	env.seedProfile(t)

	reply := env.say(t, "match")
	assert.Contains(t, reply, "partner's birth date")

	reply = env.say(t, "22.11.1992")
	assert.Contains(t, reply, "/ 36")
}

func TestProcessor_Numerology(t *testing.T) {
	env := newProcEnv(t)
	env.seedProfile(t)

	reply := env.say(t, "numerology")
	assert.Contains(t, reply, "life path number")
}

func TestProcessor_SubscribeAndStop(t *testing.T) {
	env := newProcEnv(t)
	ctx := context.Background()

	reply := env.say(t, "subscribe leo 7")
	assert.Contains(t, reply, "Leo")
	assert.Contains(t, reply, "07:00 UTC")

	sub, err := env.subs.GetByPhone(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, 4, sub.SignIndex)
	assert.Equal(t, 7, sub.SendHourUTC)
	assert.True(t, sub.Active)

	reply = env.say(t, "stop")
	assert.Contains(t, reply, "cancelled")

	sub, err = env.subs.GetByPhone(ctx, testPhone)
	require.NoError(t, err)
	assert.False(t, sub.Active)
}

func TestProcessor_StopWithoutSubscription(t *testing.T) {
	env := newProcEnv(t)
	reply := env.say(t, "stop")
	assert.Contains(t, reply, "don't have an active")
}

func TestProcessor_SubscribeDefaultsToSunSign(t *testing.T) {
	env := newProcEnv(t)
	env.seedProfile(t)

	reply := env.say(t, "subscribe")
	assert.Contains(t, reply, "daily")

	sub, err := env.subs.GetByPhone(context.Background(), testPhone)
	require.NoError(t, err)
	assert.True(t, sub.Active)
	assert.Equal(t, 8, sub.SendHourUTC)
	assert.GreaterOrEqual(t, sub.SignIndex, 0)
	assert.LessOrEqual(t, sub.SignIndex, 11)
}

func TestProcessor_SubscribeBadArgument(t *testing.T) {
	env := newProcEnv(t)
	reply := env.say(t, "subscribe whenever")
	assert.Contains(t, reply, "subscribe [sign] [hour]")
}

func TestProcessor_RecordsEvents(t *testing.T) {
	env := newProcEnv(t)
	ctx := context.Background()

	env.say(t, "help")

	// Outbound recording runs detached; wait for both directions.
	assert.Eventually(t, func() bool {
		events, err := env.events.GetByPhone(ctx, testPhone, 0, fixedNow.UnixMilli()+1)
		return err == nil && len(events) == 2
	}, 2*time.Second, 10*time.Millisecond)

	counts, err := env.events.CountByIntent(ctx, 0, fixedNow.UnixMilli()+1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["help"])
}
