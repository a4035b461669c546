package httpapi

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"

	"github.com/i474232898/skypulse/internal/display"
	"github.com/i474232898/skypulse/internal/quiz"
	"github.com/i474232898/skypulse/internal/weather"
)

// LoadErrorMessage is the only upstream failure text clients ever see.
const LoadErrorMessage = "Could not load weather. Please refresh."

var validate = validator.New()

// Locales offered for number formatting; the first is the default.
var supportedLocales = language.NewMatcher([]language.Tag{
	language.English,
	language.German,
	language.French,
	language.Spanish,
	language.Hindi,
	language.Bengali,
})

// Deps is what the handlers need.
type Deps struct {
	Service   *weather.Service
	Generator *quiz.Generator
	Sessions  *quiz.Registry
	Best      *quiz.BestScore
	Logger    *slog.Logger
}

type handler struct {
	Deps
	logger *slog.Logger
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	h := &handler{Deps: deps, logger: deps.Logger.With("component", "http")}

	v1 := app.Group("/api/v1")

	v1.Get("/weather", h.getWeather)
	v1.Get("/outlook", h.getOutlook)

	// /quiz/best is registered before /quiz/:id so it is not taken for an id.
	v1.Get("/quiz/best", h.getBestScore)
	v1.Post("/quiz", h.createQuiz)
	v1.Get("/quiz/:id", h.getQuiz)
	v1.Post("/quiz/:id/answer", h.answerQuiz)
	v1.Post("/quiz/:id/next", h.nextQuestion)
	v1.Post("/quiz/:id/reset", h.resetQuiz)
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

type weatherResponse struct {
	Dashboard display.Dashboard `json:"dashboard"`
	Snapshot  weather.Snapshot  `json:"snapshot"`
}

func (h *handler) getWeather(c *fiber.Ctx) error {
	snapshot, err := h.snapshot(c)
	if err != nil {
		return err
	}
	f := display.NewFormatter(requestLocale(c))
	return c.JSON(weatherResponse{
		Dashboard: f.Dashboard(snapshot, h.Service.FallbackLabel()),
		Snapshot:  snapshot,
	})
}

func (h *handler) getOutlook(c *fiber.Ctx) error {
	snapshot, err := h.snapshot(c)
	if err != nil {
		return err
	}
	return c.JSON(weather.Summarize(snapshot.Daily))
}

// snapshot resolves the request location and returns its snapshot. Upstream
// failures are logged and collapsed into LoadErrorMessage.
func (h *handler) snapshot(c *fiber.Ctx) (weather.Snapshot, error) {
	q, err := parseLocationQuery(c)
	if err != nil {
		return weather.Snapshot{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	loc := h.Service.Resolve(q.Lat, q.Lon)
	snapshot, err := h.Service.Snapshot(c.UserContext(), loc)
	if err != nil {
		h.logger.Error("failed to load weather", "location", loc.Key(), "error", err)
		return weather.Snapshot{}, fiber.NewError(fiber.StatusBadGateway, LoadErrorMessage)
	}
	return snapshot, nil
}

// locationQuery holds the optional coordinates. Both or neither must be set.
type locationQuery struct {
	Lat *float64 `validate:"required_with=Lon,omitempty,gte=-90,lte=90"`
	Lon *float64 `validate:"required_with=Lat,omitempty,gte=-180,lte=180"`
}

func parseLocationQuery(c *fiber.Ctx) (locationQuery, error) {
	var q locationQuery

	lat, err := optionalFloat(c.Query("lat"))
	if err != nil {
		return q, errors.New("lat must be a number")
	}
	lon, err := optionalFloat(c.Query("lon"))
	if err != nil {
		return q, errors.New("lon must be a number")
	}
	q.Lat, q.Lon = lat, lon

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func optionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func requestLocale(c *fiber.Ctx) language.Tag {
	tag, _ := language.MatchStrings(supportedLocales, c.Query("locale"), c.Get(fiber.HeaderAcceptLanguage))
	return tag
}
