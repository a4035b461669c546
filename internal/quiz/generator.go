package quiz

import (
	"fmt"

	"github.com/i474232898/skypulse/internal/common"
	"github.com/i474232898/skypulse/internal/weather"
)

// Question is one multiple-choice question. Answer indexes Options as shuffled.
type Question struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  int      `json:"-"`
}

// Correct reports whether option is the right pick.
func (q Question) Correct(option int) bool {
	return option == q.Answer
}

const (
	TextCurrentCondition = "What's the current condition?"
	TextTodayHigh        = "What's today's forecasted high?"
	TextRainToday        = "Is there measurable rain today (≥ 1 mm)?"
	TextWindToday        = "True/False: Peak wind today is 30+ km/h."
	TextPreparedness     = "Best monsoon habit:"
)

// Answer thresholds for today's questions.
const (
	MeasurableRainMm = 1.0
	WindyKmh         = 30
)

// conditionDistractors are the canonical wrong answers for the condition question.
var conditionDistractors = []string{"Overcast", "Heavy rain", "Thunderstorm", "Fog"}

const preparednessAnswer = "Carry a compact umbrella and waterproof bag"

var preparednessOptions = []string{
	preparednessAnswer,
	"Wear heavy denim daily",
	"Ignore thunder and head to rooftops",
	"Charge your phone only during storms",
}

// highTempOffsets are pairwise distinct, so exactly one label matches today's high.
var highTempOffsets = []int{0, -2, 2, -4}

// Generator builds quiz decks from a snapshot's data.
type Generator struct {
	rnd Rand
}

// NewGenerator creates a Generator. A nil r uses DefaultRand.
func NewGenerator(r Rand) *Generator {
	if r == nil {
		r = DefaultRand
	}
	return &Generator{rnd: r}
}

// Generate builds the deck: the current-condition question when current is
// present, three questions about today when daily has at least one day, and
// the preparedness question always. It never returns an empty deck.
func (g *Generator) Generate(current *weather.CurrentConditions, daily *weather.DailyForecastSeries) []Question {
	deck := make([]Question, 0, 5)

	if current != nil {
		deck = append(deck, g.currentCondition(current))
	}

	if today, ok := daily.Today(); ok {
		deck = append(deck,
			g.todayHigh(today),
			g.yesNo(TextRainToday, today.PrecipSumMm >= MeasurableRainMm, "Yes", "No"),
			g.yesNo(TextWindToday, common.RoundHalfUp(today.MaxWindKmh) >= WindyKmh, "True", "False"),
		)
	}

	deck = append(deck, g.choice(TextPreparedness, preparednessAnswer, preparednessOptions))
	return deck
}

// GenerateFrom builds a deck from one snapshot, so both inputs always come
// from the same fetch.
func (g *Generator) GenerateFrom(s weather.Snapshot) []Question {
	return g.Generate(s.Current, s.Daily)
}

func (g *Generator) currentCondition(current *weather.CurrentConditions) Question {
	correct := weather.Classify(current.WeatherCode, current.IsDay).Description

	wrongs := make([]string, 0, len(conditionDistractors))
	for _, w := range conditionDistractors {
		if w != correct {
			wrongs = append(wrongs, w)
		}
	}

	options := append([]string{correct}, Sample(g.rnd, wrongs, 3)...)
	return g.choice(TextCurrentCondition, correct, options)
}

func (g *Generator) todayHigh(today weather.DailyForecast) Question {
	high := common.RoundHalfUp(today.MaxTempC)

	options := make([]string, len(highTempOffsets))
	for i, off := range highTempOffsets {
		options[i] = degrees(high + off)
	}
	return g.choice(TextTodayHigh, degrees(high), options)
}

func (g *Generator) yesNo(text string, truth bool, yes, no string) Question {
	correct := no
	if truth {
		correct = yes
	}
	return g.choice(text, correct, []string{yes, no})
}

// choice shuffles options and locates correct in the shuffled order.
// options must contain correct exactly once.
func (g *Generator) choice(text, correct string, options []string) Question {
	shuffled := Shuffle(g.rnd, options)
	return Question{
		Text:    text,
		Options: shuffled,
		Answer:  indexOf(shuffled, correct),
	}
}

func degrees(n int) string {
	return fmt.Sprintf("%d°", n)
}
