package fixtures

import "time"

// Generator defaults.
const (
	DefaultNumEvents = 600
	DefaultBatchSize = 200
	eventLength      = 5 * time.Hour
	randomDivisor    = 1_000_000
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

type organizer struct {
	Name     string
	Slug     string
	Region   string
	Location string
	Address  string
}

var organizers = []organizer{
	{Name: "Card Lair", Slug: "card-lair", Region: "Zurich", Location: "Card Lair Oerlikon", Address: "Oerlikon"},
	{Name: "Bern Games", Slug: "bern-games", Region: "Bern", Location: "Spielbar", Address: "Bern"},
	{Name: "Genève Jeux", Slug: "geneve-jeux", Region: "Geneva", Location: "Le Donjon", Address: "Genève"},
	{Name: "Ticino Magic", Slug: "ticino-magic", Region: "Ticino", Location: "Casa del Gioco", Address: "Lugano"},
	{Name: "Basel Spellslingers", Slug: "basel-spellslingers", Region: "Northwestern Switzerland", Location: "Kleinbasel Hall", Address: "Basel"},
	{Name: "mana lounge", Slug: "mana-lounge", Region: "Eastern Switzerland", Location: "Mana Lounge", Address: "St. Gallen"},
	{Name: "Traveling Judges", Slug: "traveling-judges", Region: "", Location: "", Address: ""},
}

var formats = []string{"Modern", "Legacy", "Pioneer", "Standard", "Pauper", "Vintage", "Limited", "Commander", "Duel Commander", "Multi-Format"}

var categories = []string{"Regular", "Regular", "Regular", "Regional", "Premier"}

var startTimes = []string{"10:00", "13:30", "14:00", "18:30", "19:00"}
