package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"astro-whatsapp-bot/internal/astro"
	"astro-whatsapp-bot/internal/chart"
	"astro-whatsapp-bot/internal/dasha"
	"astro-whatsapp-bot/internal/domain"
	"astro-whatsapp-bot/internal/geocode"
	"astro-whatsapp-bot/internal/idhash"
	"astro-whatsapp-bot/internal/observability"
	"astro-whatsapp-bot/internal/reading"
	"astro-whatsapp-bot/internal/session"
	"astro-whatsapp-bot/internal/storage"
)

// Resolved intents.
const (
	intentChart       = "chart"
	intentHoroscope   = "horoscope"
	intentDasha       = "dasha"
	intentMatch       = "match"
	intentNumerology  = "numerology"
	intentSubscribe   = "subscribe"
	intentUnsubscribe = "unsubscribe"
	intentHelp        = "help"
	intentFlow        = "flow"
	intentUnknown     = "unknown"
)

// dashaTimelineSpanYears bounds the timeline section of a dasha reading.
const dashaTimelineSpanYears = 60

// ProcessorOptions wires the processor's collaborators. Events may be nil,
// in which case analytics recording is skipped.
type ProcessorOptions struct {
	Assembler     *chart.Assembler
	Geocoder      geocode.Geocoder
	Sessions      session.Store
	Users         storage.UserProfileStore
	Readings      storage.ReadingStore
	Subscriptions storage.SubscriptionStore
	Events        storage.MessageEventStore
	Sender        Sender
	Logger        *zap.SugaredLogger
	Now           func() time.Time
}

// Processor turns inbound messages into replies. One instance handles all
// users; per-user state lives in the session store, so processing is safe
// to run concurrently for different phones.
type Processor struct {
	assembler     *chart.Assembler
	geocoder      geocode.Geocoder
	sessions      session.Store
	users         storage.UserProfileStore
	readings      storage.ReadingStore
	subscriptions storage.SubscriptionStore
	events        storage.MessageEventStore
	sender        Sender
	logger        *zap.SugaredLogger
	now           func() time.Time
}

// NewProcessor creates a message processor.
func NewProcessor(opts ProcessorOptions) *Processor {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Processor{
		assembler:     opts.Assembler,
		geocoder:      opts.Geocoder,
		sessions:      opts.Sessions,
		users:         opts.Users,
		readings:      opts.Readings,
		subscriptions: opts.Subscriptions,
		events:        opts.Events,
		sender:        opts.Sender,
		logger:        logger,
		now:           now,
	}
}

// Process handles one inbound message end to end: resolve the intent or
// continue an active flow, generate the reply, persist the reading and
// send it back. Returns an error only when the reply could not be sent.
func (p *Processor) Process(ctx context.Context, msg domain.InboundMessage) error {
	start := p.now()

	conv := p.activeConversation(ctx, msg.From)

	var intent, reply string
	if conv != nil {
		intent = intentFlow
		reply = p.continueFlow(ctx, conv, msg)
	} else {
		var arg string
		intent, arg = parseIntent(msg.Text)
		reply = p.route(ctx, intent, arg, msg)
	}

	observability.RecordMessageReceived(intent, msg.TimestampMs)
	p.recordEvent(msg.From, domain.DirectionIn, intent, 0, msg.TimestampMs)

	if reply == "" {
		// Nothing to say; still counts as processed.
		observability.RecordProcessingLatency(time.Since(start).Seconds())
		return nil
	}

	if _, err := p.sender.Send(ctx, domain.OutboundMessage{To: msg.From, Text: reply}); err != nil {
		observability.RecordProcessingError("send")
		p.logger.Errorw("reply send failed", "phone", msg.From, "error", err)
		return fmt.Errorf("send reply: %w", err)
	}

	latency := time.Since(start)
	observability.RecordProcessingLatency(latency.Seconds())
	p.recordEvent(msg.From, domain.DirectionOut, intent, latency.Milliseconds(), p.now().UnixMilli())
	return nil
}

// activeConversation returns the conversation if one is mid-flow.
func (p *Processor) activeConversation(ctx context.Context, phone string) *session.Conversation {
	conv, err := p.sessions.Get(ctx, phone)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			observability.RecordProcessingError("session_get")
			p.logger.Warnw("session lookup failed", "phone", phone, "error", err)
		}
		return nil
	}
	if conv.Step == session.StepIdle {
		return nil
	}
	return conv
}

// parseIntent resolves the leading keyword of a message. The remainder of
// the text is returned as the argument.
func parseIntent(text string) (intent, arg string) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(fields) == 0 {
		return intentUnknown, ""
	}
	arg = strings.Join(fields[1:], " ")

	switch fields[0] {
	case "chart", "birthchart", "kundli":
		return intentChart, arg
	case "horoscope", "daily":
		return intentHoroscope, arg
	case "dasha":
		return intentDasha, arg
	case "match", "compatibility":
		return intentMatch, arg
	case "numerology", "lifepath":
		return intentNumerology, arg
	case "subscribe":
		return intentSubscribe, arg
	case "stop", "unsubscribe":
		return intentUnsubscribe, arg
	case "help", "hi", "hello", "start", "menu":
		return intentHelp, arg
	}
	return intentUnknown, strings.Join(fields, " ")
}

// route dispatches one resolved intent.
func (p *Processor) route(ctx context.Context, intent, arg string, msg domain.InboundMessage) string {
	switch intent {
	case intentHelp:
		return helpText()
	case intentHoroscope:
		return p.handleHoroscope(ctx, arg, msg)
	case intentChart:
		return p.handleChart(ctx, msg)
	case intentDasha:
		return p.handleDasha(ctx, msg)
	case intentMatch:
		return p.handleMatch(ctx, arg, msg)
	case intentNumerology:
		return p.handleNumerology(ctx, msg)
	case intentSubscribe:
		return p.handleSubscribe(ctx, arg, msg)
	case intentUnsubscribe:
		return p.handleUnsubscribe(ctx, msg)
	default:
		return "I didn't understand that. " + helpText()
	}
}

func helpText() string {
	return "Here's what I can do:\n" +
		"- *chart* - your Vedic birth chart\n" +
		"- *horoscope* [sign] - today's horoscope\n" +
		"- *dasha* - your current planetary period\n" +
		"- *match* [partner's birth date] - compatibility\n" +
		"- *numerology* - your life path number\n" +
		"- *subscribe* [sign] [hour] - daily horoscope delivery\n" +
		"- *stop* - cancel the daily delivery\n" +
		"Send *cancel* any time to abandon a flow."
}

// profileWithBirth loads the user's profile when birth details are on file.
// Otherwise it starts the collection flow and returns the opening prompt.
func (p *Processor) profileWithBirth(ctx context.Context, phone, pendingIntent string) (*domain.UserProfile, string) {
	profile, err := p.users.GetByPhone(ctx, phone)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		observability.RecordProcessingError("profile_get")
		p.logger.Errorw("profile lookup failed", "phone", phone, "error", err)
		return nil, "Something went wrong on my side. Please try again in a moment."
	}
	if profile != nil && profile.Birth != nil {
		return profile, ""
	}

	conv := &session.Conversation{
		Phone:         phone,
		Step:          session.StepAwaitDate,
		PendingIntent: pendingIntent,
		UpdatedAtMs:   p.now().UnixMilli(),
	}
	if err := p.sessions.Put(ctx, conv); err != nil {
		observability.RecordProcessingError("session_put")
		p.logger.Errorw("session save failed", "phone", phone, "error", err)
		return nil, "Something went wrong on my side. Please try again in a moment."
	}
	return nil, "I need your birth details first.\nWhat's your birth date? (DD.MM.YYYY)"
}

// continueFlow advances an active collection flow by one step.
func (p *Processor) continueFlow(ctx context.Context, conv *session.Conversation, msg domain.InboundMessage) string {
	text := strings.TrimSpace(msg.Text)
	if strings.EqualFold(text, "cancel") {
		p.dropSession(ctx, conv.Phone)
		return "Cancelled. Send *help* to see what I can do."
	}

	switch conv.Step {
	case session.StepAwaitDate:
		year, month, day, err := parseDate(text)
		if err != nil {
			return "That doesn't look like a date. Please send it as DD.MM.YYYY, e.g. 15.06.1990."
		}
		conv.Draft.Instant.Year = year
		conv.Draft.Instant.Month = month
		conv.Draft.Instant.Day = day
		conv.Step = session.StepAwaitTime
		return p.saveFlow(ctx, conv,
			"Got it. What time were you born? (HH:MM, 24-hour; add a UTC offset like +5.5 if you know it)")

	case session.StepAwaitTime:
		hour, minute, offset, hasOffset, err := parseTime(text)
		if err != nil {
			return "That doesn't look like a time. Please send it as HH:MM, e.g. 10:30."
		}
		conv.Draft.Instant.Hour = hour
		conv.Draft.Instant.Minute = minute
		if hasOffset {
			conv.Draft.Instant.Offset = offset
			conv.OffsetProvided = true
		}
		conv.Step = session.StepAwaitPlace
		return p.saveFlow(ctx, conv, "And where were you born? (city name)")

	case session.StepAwaitPlace:
		return p.finishBirthFlow(ctx, conv, msg, text)

	case session.StepAwaitPartnerDate:
		year, month, day, err := parseDate(text)
		if err != nil {
			return "That doesn't look like a date. Please send your partner's birth date as DD.MM.YYYY."
		}
		p.dropSession(ctx, conv.Phone)
		profile, prompt := p.profileWithBirth(ctx, conv.Phone, intentMatch)
		if profile == nil {
			return prompt
		}
		return p.renderMatch(ctx, profile, domain.Instant{Year: year, Month: month, Day: day})
	}

	// Unknown step, likely from an older build. Start over.
	p.dropSession(ctx, conv.Phone)
	return helpText()
}

// finishBirthFlow geocodes the place, validates the assembled instant,
// persists the profile and resumes the intent that started the flow.
func (p *Processor) finishBirthFlow(ctx context.Context, conv *session.Conversation, msg domain.InboundMessage, placeText string) string {
	place, err := p.geocoder.Resolve(ctx, placeText)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			return fmt.Sprintf("I couldn't find %q. Try the nearest big city.", placeText)
		}
		observability.RecordProcessingError("geocode")
		p.logger.Errorw("geocode failed", "phone", conv.Phone, "place", placeText, "error", err)
		return "The place lookup is unavailable right now. Please try again in a moment."
	}

	conv.Draft.Place = place.DisplayName
	conv.Draft.Location = place.Location
	if !conv.OffsetProvided {
		conv.Draft.Instant.Offset = place.UTCOffset
	}

	if err := astro.ValidateInstant(conv.Draft.Instant); err != nil {
		conv.Step = session.StepAwaitDate
		conv.Draft = domain.BirthDetails{}
		conv.OffsetProvided = false
		return p.saveFlow(ctx, conv,
			"Those details don't form a valid birth moment. Let's start over.\nWhat's your birth date? (DD.MM.YYYY)")
	}

	nowMs := p.now().UnixMilli()
	profile, err := p.users.GetByPhone(ctx, conv.Phone)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		observability.RecordProcessingError("profile_get")
		p.logger.Errorw("profile lookup failed", "phone", conv.Phone, "error", err)
		return "Something went wrong on my side. Please try again in a moment."
	}
	if profile == nil {
		profile = &domain.UserProfile{
			Phone:     conv.Phone,
			Language:  "en",
			CreatedAt: nowMs,
		}
	}
	birth := conv.Draft
	profile.Birth = &birth
	profile.UpdatedAt = nowMs

	if err := p.users.Upsert(ctx, profile); err != nil {
		observability.RecordProcessingError("profile_upsert")
		p.logger.Errorw("profile save failed", "phone", conv.Phone, "error", err)
		return "Something went wrong saving your details. Please try again."
	}

	pending := conv.PendingIntent
	p.dropSession(ctx, conv.Phone)

	confirmation := fmt.Sprintf("Saved: born %02d.%02d.%d at %02d:%02d in %s (UTC%+.1f).\n\n",
		birth.Instant.Day, birth.Instant.Month, birth.Instant.Year,
		birth.Instant.Hour, birth.Instant.Minute, birth.Place, birth.Instant.Offset)

	if pending == "" {
		return confirmation + helpText()
	}
	return confirmation + p.route(ctx, pending, "", msg)
}

func (p *Processor) saveFlow(ctx context.Context, conv *session.Conversation, prompt string) string {
	conv.UpdatedAtMs = p.now().UnixMilli()
	if err := p.sessions.Put(ctx, conv); err != nil {
		observability.RecordProcessingError("session_put")
		p.logger.Errorw("session save failed", "phone", conv.Phone, "error", err)
		return "Something went wrong on my side. Please try again in a moment."
	}
	return prompt
}

func (p *Processor) dropSession(ctx context.Context, phone string) {
	if err := p.sessions.Delete(ctx, phone); err != nil {
		observability.RecordProcessingError("session_delete")
		p.logger.Warnw("session delete failed", "phone", phone, "error", err)
	}
}

func (p *Processor) handleChart(ctx context.Context, msg domain.InboundMessage) string {
	profile, prompt := p.profileWithBirth(ctx, msg.From, intentChart)
	if profile == nil {
		return prompt
	}

	c, err := p.assembler.Assemble(ctx, profile.Birth.Instant, profile.Birth.Location, domain.DefaultBodies, p.now())
	if err != nil {
		observability.RecordProcessingError("assemble")
		p.logger.Errorw("chart assembly failed", "phone", msg.From, "error", err)
		return "I couldn't compute your chart from the stored birth details. Send *chart* to re-enter them."
	}

	text := reading.RenderChartSummary(c)
	p.saveReading(ctx, msg.From, domain.ReadingBirthChart, text, &c.ChartID)
	return text
}

func (p *Processor) handleHoroscope(ctx context.Context, arg string, msg domain.InboundMessage) string {
	today := p.now().UTC()

	if arg != "" {
		sign := reading.SignIndexOf(arg)
		if sign < 0 {
			return fmt.Sprintf("I don't know the sign %q. Try one of the twelve, e.g. *horoscope leo*.", arg)
		}
		text := reading.DailyHoroscope(sign, today)
		p.saveReading(ctx, msg.From, domain.ReadingHoroscope, text, nil)
		return text
	}

	profile, prompt := p.profileWithBirth(ctx, msg.From, intentHoroscope)
	if profile == nil {
		return prompt
	}

	sign, err := p.sunSign(ctx, profile)
	if err != nil {
		return "I couldn't determine your sun sign right now. Try *horoscope <sign>* instead."
	}
	text := reading.DailyHoroscope(sign, today)
	p.saveReading(ctx, msg.From, domain.ReadingHoroscope, text, nil)
	return text
}

func (p *Processor) handleDasha(ctx context.Context, msg domain.InboundMessage) string {
	profile, prompt := p.profileWithBirth(ctx, msg.From, intentDasha)
	if profile == nil {
		return prompt
	}

	c, err := p.assembler.Assemble(ctx, profile.Birth.Instant, profile.Birth.Location,
		[]domain.Body{domain.BodyMoon}, p.now())
	if err != nil {
		observability.RecordProcessingError("assemble")
		p.logger.Errorw("dasha chart assembly failed", "phone", msg.From, "error", err)
		return "I couldn't compute your dasha from the stored birth details."
	}

	if c.CurrentDasha == nil || c.BirthNakshatra == nil {
		text := reading.RenderIndeterminateDasha(c.DashaNote)
		p.saveReading(ctx, msg.From, domain.ReadingDasha, text, &c.ChartID)
		return text
	}

	timeline, err := dasha.Timeline(c.BirthNakshatra.Index, dashaTimelineSpanYears)
	if err != nil {
		timeline = nil
	}
	text := reading.RenderDashaReading(*c.BirthNakshatra, *c.CurrentDasha, timeline, profile.Birth.Instant.Year)
	p.saveReading(ctx, msg.From, domain.ReadingDasha, text, &c.ChartID)
	return text
}

func (p *Processor) handleMatch(ctx context.Context, arg string, msg domain.InboundMessage) string {
	profile, prompt := p.profileWithBirth(ctx, msg.From, intentMatch)
	if profile == nil {
		return prompt
	}

	if arg == "" {
		conv := &session.Conversation{
			Phone:         msg.From,
			Step:          session.StepAwaitPartnerDate,
			PendingIntent: intentMatch,
			UpdatedAtMs:   p.now().UnixMilli(),
		}
		return p.saveFlow(ctx, conv, "What's your partner's birth date? (DD.MM.YYYY)")
	}

	year, month, day, err := parseDate(arg)
	if err != nil {
		return "Please send your partner's birth date as DD.MM.YYYY, e.g. *match 22.11.1992*."
	}
	return p.renderMatch(ctx, profile, domain.Instant{Year: year, Month: month, Day: day})
}

// renderMatch compares the user's birth nakshatra with the partner's.
// Only the partner's date is known, so noon in the user's timezone stands
// in for the unknown birth time.
func (p *Processor) renderMatch(ctx context.Context, profile *domain.UserProfile, partnerDate domain.Instant) string {
	now := p.now()
	moonOnly := []domain.Body{domain.BodyMoon}

	own, err := p.assembler.Assemble(ctx, profile.Birth.Instant, profile.Birth.Location, moonOnly, now)
	if err != nil || own.BirthNakshatra == nil {
		observability.RecordProcessingError("assemble")
		return "I couldn't read your moon position right now. Please try again in a moment."
	}

	partnerDate.Hour = 12
	partnerDate.Offset = profile.Birth.Instant.Offset
	partner, err := p.assembler.Assemble(ctx, partnerDate, profile.Birth.Location, moonOnly, now)
	if err != nil {
		return "That birth date doesn't look valid. Please send it as DD.MM.YYYY."
	}
	if partner.BirthNakshatra == nil {
		return "I couldn't read your partner's moon position right now. Please try again in a moment."
	}

	text := reading.RenderCompatibility(own.BirthNakshatra.Index, partner.BirthNakshatra.Index)
	p.saveReading(ctx, profile.Phone, domain.ReadingCompatibility, text, nil)
	return text
}

func (p *Processor) handleNumerology(ctx context.Context, msg domain.InboundMessage) string {
	profile, prompt := p.profileWithBirth(ctx, msg.From, intentNumerology)
	if profile == nil {
		return prompt
	}
	text := reading.RenderNumerology(profile.Birth.Instant)
	p.saveReading(ctx, msg.From, domain.ReadingNumerology, text, nil)
	return text
}

// handleSubscribe parses "subscribe [sign] [hour]". The sign falls back to
// the user's sun sign; the delivery hour defaults to 08:00 UTC.
func (p *Processor) handleSubscribe(ctx context.Context, arg string, msg domain.InboundMessage) string {
	sign := -1
	hour := 8

	for _, field := range strings.Fields(arg) {
		if s := reading.SignIndexOf(field); s >= 0 {
			sign = s
			continue
		}
		if h, err := strconv.Atoi(field); err == nil && h >= 0 && h <= 23 {
			hour = h
			continue
		}
		return fmt.Sprintf("I didn't understand %q. Use *subscribe [sign] [hour]*, e.g. *subscribe leo 7*.", field)
	}

	if sign < 0 {
		profile, prompt := p.profileWithBirth(ctx, msg.From, intentSubscribe)
		if profile == nil {
			return prompt
		}
		s, err := p.sunSign(ctx, profile)
		if err != nil {
			return "I couldn't determine your sun sign. Subscribe with an explicit sign, e.g. *subscribe leo*."
		}
		sign = s
	}

	sub := &domain.Subscription{
		Phone:       msg.From,
		SignIndex:   sign,
		SendHourUTC: hour,
		Active:      true,
		CreatedAt:   p.now().UnixMilli(),
	}
	if err := p.subscriptions.Upsert(ctx, sub); err != nil {
		observability.RecordProcessingError("subscription_upsert")
		p.logger.Errorw("subscription save failed", "phone", msg.From, "error", err)
		return "Something went wrong saving your subscription. Please try again."
	}
	return fmt.Sprintf("Done. You'll get the %s horoscope daily around %02d:00 UTC. Send *stop* to cancel.",
		reading.SignName(sign), hour)
}

func (p *Processor) handleUnsubscribe(ctx context.Context, msg domain.InboundMessage) string {
	err := p.subscriptions.Deactivate(ctx, msg.From)
	if errors.Is(err, storage.ErrNotFound) {
		return "You don't have an active daily horoscope subscription."
	}
	if err != nil {
		observability.RecordProcessingError("subscription_deactivate")
		p.logger.Errorw("subscription deactivate failed", "phone", msg.From, "error", err)
		return "Something went wrong. Please try again."
	}
	return "Daily horoscope cancelled. Send *subscribe* any time to restart it."
}

// sunSign assembles a sun-only chart and returns the sun's sign index.
func (p *Processor) sunSign(ctx context.Context, profile *domain.UserProfile) (int, error) {
	c, err := p.assembler.Assemble(ctx, profile.Birth.Instant, profile.Birth.Location,
		[]domain.Body{domain.BodySun}, p.now())
	if err != nil {
		return 0, err
	}
	sun, ok := c.Bodies[domain.BodySun]
	if !ok || sun.Unavailable {
		return 0, fmt.Errorf("sun position unavailable")
	}
	return sun.Sign.SignIndex, nil
}

// saveReading persists a generated reading. Persistence failures are logged
// and absorbed; the user still gets the text.
func (p *Processor) saveReading(ctx context.Context, phone string, kind domain.ReadingKind, text string, chartID *string) {
	createdAt := p.now().UnixMilli()
	id := idhash.ComputeReadingID(phone, kind, chartID, createdAt)
	r := &domain.Reading{
		ReadingID: id,
		ShortCode: idhash.ShortCode(id),
		Phone:     phone,
		Kind:      kind,
		Text:      text,
		ChartID:   chartID,
		CreatedAt: createdAt,
	}
	if err := p.readings.Insert(ctx, r); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		observability.RecordProcessingError("reading_insert")
		p.logger.Errorw("reading save failed", "phone", phone, "kind", kind, "error", err)
		return
	}
	observability.RecordReadingGenerated(string(kind))
}

// recordEvent writes one analytics event. Best effort: analytics must
// never block or fail a reply, so this runs detached with its own timeout.
func (p *Processor) recordEvent(phone, direction, intent string, latencyMs, timestampMs int64) {
	if p.events == nil {
		return
	}
	event := &domain.MessageEvent{
		EventID:     idhash.ComputeEventID(phone, direction, intent, timestampMs),
		Phone:       phone,
		Direction:   direction,
		Intent:      intent,
		LatencyMs:   latencyMs,
		TimestampMs: timestampMs,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.events.Insert(ctx, event); err != nil {
			observability.RecordProcessingError("event_insert")
			p.logger.Warnw("analytics event insert failed", "phone", phone, "error", err)
		}
	}()
}
