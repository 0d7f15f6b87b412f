package reading

import "astro-whatsapp-bot/internal/domain"

// signProfile is the hand-authored content for one zodiac sign.
// One canonical table; every generator reads from here.
type signProfile struct {
	Name    string
	Element string
	Ruler   domain.Body
	Traits  []string
	Focus   []string
	Advice  []string
}

var signProfiles = [12]signProfile{
	{
		Name: "Aries", Element: "Fire", Ruler: domain.BodyMars,
		Traits: []string{"direct", "courageous", "restless"},
		Focus:  []string{"a fresh start you have been postponing", "a rivalry that sharpens you", "physical energy that needs an outlet"},
		Advice: []string{"Act on the first clear impulse, not the third doubt.", "Channel impatience into one decisive task.", "Let someone else finish their sentence today."},
	},
	{
		Name: "Taurus", Element: "Earth", Ruler: domain.BodyVenus,
		Traits: []string{"steady", "sensual", "stubborn"},
		Focus:  []string{"money habits that deserve a second look", "comfort that has become a rut", "something worth building slowly"},
		Advice: []string{"Hold your ground, but check the ground first.", "Spend on quality, not on quantity.", "A small change of routine restores your appetite for the rest."},
	},
	{
		Name: "Gemini", Element: "Air", Ruler: domain.BodyMercury,
		Traits: []string{"curious", "quick", "scattered"},
		Focus:  []string{"a conversation that changes your plans", "two commitments competing for one evening", "an idea that needs writing down"},
		Advice: []string{"Say the difficult thing plainly.", "Pick one thread and follow it to the end.", "Your question is better than your answer today."},
	},
	{
		Name: "Cancer", Element: "Water", Ruler: domain.BodyMoon,
		Traits: []string{"protective", "intuitive", "moody"},
		Focus:  []string{"family matters asking for patience", "a home improvement long deferred", "an old memory resurfacing for a reason"},
		Advice: []string{"Trust the tide; it knows when to turn.", "Feed the people you love, including yourself.", "Guard your energy before noon."},
	},
	{
		Name: "Leo", Element: "Fire", Ruler: domain.BodySun,
		Traits: []string{"warm", "proud", "dramatic"},
		Focus:  []string{"recognition arriving late but arriving", "a creative project wanting an audience", "leadership nobody else will take"},
		Advice: []string{"Shine without checking who is watching.", "Praise someone who never gets praised.", "Generosity is your best argument."},
	},
	{
		Name: "Virgo", Element: "Earth", Ruler: domain.BodyMercury,
		Traits: []string{"precise", "helpful", "critical"},
		Focus:  []string{"a system that finally needs fixing, not patching", "health routines drifting off course", "details everyone else missed"},
		Advice: []string{"Perfect is a direction, not a destination.", "Fix the checklist before the crisis.", "Accept help exactly once today."},
	},
	{
		Name: "Libra", Element: "Air", Ruler: domain.BodyVenus,
		Traits: []string{"diplomatic", "fair", "indecisive"},
		Focus:  []string{"a partnership asking for rebalancing", "beauty worth making time for", "a verdict you keep postponing"},
		Advice: []string{"Decide; symmetry will survive it.", "Name the imbalance out loud.", "Charm opens the door, honesty keeps it open."},
	},
	{
		Name: "Scorpio", Element: "Water", Ruler: domain.BodyMars,
		Traits: []string{"intense", "private", "resolute"},
		Focus:  []string{"a truth surfacing from deep water", "shared resources and old debts", "power quietly changing hands"},
		Advice: []string{"Release one grudge; it was heavy anyway.", "Depth beats breadth in every talk today.", "What you control quietly, you control well."},
	},
	{
		Name: "Sagittarius", Element: "Fire", Ruler: domain.BodyJupiter,
		Traits: []string{"optimistic", "blunt", "wandering"},
		Focus:  []string{"a journey taking shape on the horizon", "a teacher appearing in plain clothes", "a belief due for an upgrade"},
		Advice: []string{"Aim far, then actually loose the arrow.", "Your honesty lands better with a smile.", "Book the ticket; details follow."},
	},
	{
		Name: "Capricorn", Element: "Earth", Ruler: domain.BodySaturn,
		Traits: []string{"disciplined", "ambitious", "reserved"},
		Focus:  []string{"a long climb showing its first summit", "authority you must earn twice", "structures worth repairing, not replacing"},
		Advice: []string{"Patience is a strategy, not a delay.", "Delegate the ladder, keep the map.", "Rest is part of the plan, schedule it."},
	},
	{
		Name: "Aquarius", Element: "Air", Ruler: domain.BodySaturn,
		Traits: []string{"inventive", "detached", "principled"},
		Focus:  []string{"a group that needs your odd idea", "technology simplifying one stubborn chore", "a principle tested by a friend"},
		Advice: []string{"Be contrarian about the right thing.", "The future arrives through small experiments.", "Connect two people who should have met years ago."},
	},
	{
		Name: "Pisces", Element: "Water", Ruler: domain.BodyJupiter,
		Traits: []string{"compassionate", "imaginative", "elusive"},
		Focus:  []string{"a dream insisting on daylight", "boundaries dissolving where they should not", "art or music pulling at your sleeve"},
		Advice: []string{"Swim with the current, but know which current.", "Say no once; it will feel like poetry.", "Your intuition is data, treat it that way."},
	},
}

// nakshatraThemes is one line of meaning per lunar mansion, indexed like
// astro.Nakshatras.
var nakshatraThemes = [27]string{
	"swift beginnings and healing hands",
	"bearing burdens and transforming them",
	"cutting through to the essential",
	"growth, beauty and fertile ground",
	"the gentle search for something finer",
	"storms that clear the air",
	"return of light after loss",
	"nourishment and quiet prosperity",
	"the coiled wisdom of instinct",
	"ancestry, thrones and due honor",
	"rest, pleasure and creative ease",
	"contracts, kindness and patronage",
	"skilled hands and practical cleverness",
	"the bright architect of form",
	"independence that bends without breaking",
	"purpose pursued with single focus",
	"friendship, devotion and shared effort",
	"the elder's seal and hidden protection",
	"roots pulled up so truth can be seen",
	"invincible waters and early victory",
	"lasting victory won by alliance",
	"listening as a form of power",
	"wealth of rhythm, music and timing",
	"the healer's veil of a hundred stars",
	"fire that purifies ambition",
	"the serpent of the deep and steady rain",
	"safe crossing and the shepherd's care",
}

// dashaThemes describes the flavor of each mahadasha lord.
var dashaThemes = map[domain.Body]string{
	domain.BodyKetu:    "detachment, research and unfinished karmic business",
	domain.BodyVenus:   "comfort, relationships, art and material ease",
	domain.BodySun:     "authority, visibility and matters of the father",
	domain.BodyMoon:    "emotional life, the public and matters of the mother",
	domain.BodyMars:    "drive, property, brothers and competitive effort",
	domain.BodyRahu:    "ambition, foreign influence and unconventional gains",
	domain.BodyJupiter: "wisdom, teachers, children and expansion",
	domain.BodySaturn:  "discipline, delay, service and durable results",
	domain.BodyMercury: "commerce, writing, analysis and adaptable skill",
}

// remedies is the classical remedial suggestion per dasha lord.
var remedies = map[domain.Body]string{
	domain.BodyKetu:    "Feed stray dogs and keep a practice of silence.",
	domain.BodyVenus:   "Offer white flowers on Fridays and honor artists.",
	domain.BodySun:     "Rise before dawn and offer water to the rising sun.",
	domain.BodyMoon:    "Keep Mondays gentle and stay near water when restless.",
	domain.BodyMars:    "Exercise on Tuesdays and avoid arguments at dusk.",
	domain.BodyRahu:    "Donate dark grains on Saturdays and avoid shortcuts.",
	domain.BodyJupiter: "Teach what you know freely, especially on Thursdays.",
	domain.BodySaturn:  "Serve those who labor and keep your promises small and kept.",
	domain.BodyMercury: "Write daily and settle accounts before they age.",
}

// numerologyMeanings covers life path numbers 1-9 plus master numbers.
var numerologyMeanings = map[int]string{
	1:  "the pioneer: independent, original, happiest when leading",
	2:  "the diplomat: cooperative, sensitive, a natural mediator",
	3:  "the voice: expressive, social, creative to a fault",
	4:  "the builder: methodical, loyal, allergic to shortcuts",
	5:  "the traveler: adaptable, restless, a student of change",
	6:  "the guardian: responsible, nurturing, drawn to harmony",
	7:  "the seeker: analytical, private, at home in deep questions",
	8:  "the executive: ambitious, practical, a steward of resources",
	9:  "the humanitarian: generous, idealistic, finishing what others began",
	11: "the illuminator: intuitive beyond reason, a master number of vision",
	22: "the master builder: vision plus method, dreams made structural",
}
