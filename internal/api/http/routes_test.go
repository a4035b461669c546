package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/skypulse/internal/quiz"
	"github.com/i474232898/skypulse/internal/store"
	"github.com/i474232898/skypulse/internal/weather"
)

type fakeForecasts struct {
	mu   sync.Mutex
	err  error
	locs []weather.Location
}

func (f *fakeForecasts) Name() string { return "fake" }

func (f *fakeForecasts) FetchForecast(ctx context.Context, loc weather.Location) (weather.Forecast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locs = append(f.locs, loc)
	if f.err != nil {
		return weather.Forecast{}, f.err
	}
	day := time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)
	return weather.Forecast{
		Timezone: "UTC",
		Current:  &weather.CurrentConditions{TemperatureC: 31.4, HumidityPct: 70, WeatherCode: 2, IsDay: true},
		Daily: &weather.DailyForecastSeries{
			Dates:        []time.Time{day},
			WeatherCodes: []int{61},
			MinTempsC:    []float64{26},
			MaxTempsC:    []float64{33.6},
			PrecipSumsMm: []float64{25},
			MaxWindsKmh:  []float64{14},
			Sunrises:     []time.Time{day},
			Sunsets:      []time.Time{day},
		},
	}, nil
}

func (f *fakeForecasts) lastLocation() weather.Location {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.locs[len(f.locs)-1]
}

type testEnv struct {
	app       *fiber.App
	forecasts *fakeForecasts
	kv        *store.MemoryKV
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	forecasts := &fakeForecasts{}
	svc := weather.NewService(store.NewSnapshotStore(), forecasts, nil, weather.ServiceConfig{
		Fallback:      weather.Location{Latitude: 22.5726, Longitude: 88.3639},
		FallbackLabel: "Kolkata, West Bengal, India",
	}, logger)

	kv := store.NewMemoryKV()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, Deps{
		Service:   svc,
		Generator: quiz.NewGenerator(nil),
		Sessions:  quiz.NewRegistry(),
		Best:      quiz.NewBestScore(kv, logger),
		Logger:    logger,
	})
	return &testEnv{app: app, forecasts: forecasts, kv: kv}
}

func (e *testEnv) do(t *testing.T, method, target, body string, out any) int {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: unexpected error: %v", method, target, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, target, err)
		}
	}
	return resp.StatusCode
}

type errorBody struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func TestLocationValidation(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"no coordinates uses fallback", "", http.StatusOK},
		{"both coordinates", "?lat=51.5&lon=-0.12", http.StatusOK},
		{"boundary values", "?lat=-90&lon=180", http.StatusOK},
		{"latitude out of range", "?lat=91&lon=0", http.StatusBadRequest},
		{"longitude out of range", "?lat=0&lon=-181", http.StatusBadRequest},
		{"only latitude", "?lat=10", http.StatusBadRequest},
		{"only longitude", "?lon=10", http.StatusBadRequest},
		{"not a number", "?lat=north&lon=10", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if got := env.do(t, http.MethodGet, "/api/v1/outlook"+tt.query, "", nil); got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetWeather_Fallback(t *testing.T) {
	env := newTestEnv(t)

	var resp struct {
		Dashboard struct {
			Location  string `json:"location"`
			Fallback  bool   `json:"fallback"`
			UpdatedAt string `json:"updatedAt"`
			Current   struct {
				Temperature string `json:"temperature"`
				Humidity    string `json:"humidity"`
				Summary     string `json:"summary"`
				Icon        string `json:"icon"`
			} `json:"current"`
			Forecast []struct {
				Temps  string `json:"temps"`
				Extras string `json:"extras"`
			} `json:"forecast"`
			Outlook weather.Outlook `json:"outlook"`
		} `json:"dashboard"`
	}
	if got := env.do(t, http.MethodGet, "/api/v1/weather", "", &resp); got != http.StatusOK {
		t.Fatalf("status = %d, want 200", got)
	}

	d := resp.Dashboard
	if d.Location != "Kolkata, West Bengal, India" || !d.Fallback {
		t.Errorf("location = %q (fallback %v), want the fallback city", d.Location, d.Fallback)
	}
	if !strings.HasPrefix(d.UpdatedAt, "Updated ") {
		t.Errorf("updatedAt = %q", d.UpdatedAt)
	}
	if d.Current.Temperature != "31°" || d.Current.Humidity != "70%" || d.Current.Summary != "Partly cloudy" || d.Current.Icon != "sun-cloud" {
		t.Errorf("current = %+v", d.Current)
	}
	if len(d.Forecast) != 1 || d.Forecast[0].Temps != "34° / 26°" || d.Forecast[0].Extras != "25.0 mm · 14 km/h" {
		t.Errorf("forecast = %+v", d.Forecast)
	}
	if d.Outlook.Headline != weather.HeadlineVeryWet {
		t.Errorf("headline = %q, want %q", d.Outlook.Headline, weather.HeadlineVeryWet)
	}

	if loc := env.forecasts.lastLocation(); !loc.Fallback || loc.Latitude != 22.5726 {
		t.Errorf("fetched %+v, want the fallback location", loc)
	}
}

func TestGetWeather_ExplicitCoordinates(t *testing.T) {
	env := newTestEnv(t)

	var resp struct {
		Dashboard struct {
			Location string `json:"location"`
		} `json:"dashboard"`
	}
	if got := env.do(t, http.MethodGet, "/api/v1/weather?lat=51.5072&lon=-0.1276", "", &resp); got != http.StatusOK {
		t.Fatalf("status = %d, want 200", got)
	}
	if resp.Dashboard.Location != "Your location" {
		t.Errorf("location = %q, want %q", resp.Dashboard.Location, "Your location")
	}
	if loc := env.forecasts.lastLocation(); loc.Fallback || loc.Longitude != -0.1276 {
		t.Errorf("fetched %+v, want the requested coordinates", loc)
	}
}

func TestGetWeather_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.forecasts.err = errors.New("dial tcp: connection refused")

	var body errorBody
	if got := env.do(t, http.MethodGet, "/api/v1/weather", "", &body); got != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", got, http.StatusBadGateway)
	}
	if !body.Error || body.Message != LoadErrorMessage {
		t.Errorf("body = %+v, want the generic load error", body)
	}
}

func TestGetWeather_LocaleAwareNumbers(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil)
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9")
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	var out struct {
		Dashboard struct {
			Forecast []struct {
				Extras string `json:"extras"`
			} `json:"forecast"`
		} `json:"dashboard"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Dashboard.Forecast) != 1 || out.Dashboard.Forecast[0].Extras != "25,0 mm · 14 km/h" {
		t.Errorf("forecast = %+v, want German decimal separator", out.Dashboard.Forecast)
	}
}

type stateBody struct {
	ID       string `json:"id"`
	Index    int    `json:"index"`
	Total    int    `json:"total"`
	Question *struct {
		Text    string   `json:"text"`
		Options []string `json:"options"`
	} `json:"question"`
	Finished     bool `json:"finished"`
	Score        int  `json:"score"`
	BestScore    int  `json:"bestScore"`
	DisplayScore int  `json:"displayScore"`
}

type answerBody struct {
	Correct      bool `json:"correct"`
	CorrectIndex int  `json:"correctIndex"`
	Score        int  `json:"score"`
	BestScore    int  `json:"bestScore"`
	DisplayScore int  `json:"displayScore"`
	NewBest      bool `json:"newBest"`
}

func TestQuizFlow(t *testing.T) {
	env := newTestEnv(t)

	var st stateBody
	if got := env.do(t, http.MethodPost, "/api/v1/quiz", "", &st); got != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", got)
	}
	if st.ID == "" || st.Total != 5 || st.Index != 0 || st.Score != 0 || st.Question == nil {
		t.Fatalf("initial state = %+v", st)
	}
	if st.Question.Text != quiz.TextCurrentCondition {
		t.Fatalf("first question = %q, want %q", st.Question.Text, quiz.TextCurrentCondition)
	}

	base := "/api/v1/quiz/" + st.ID
	correct := slices.Index(st.Question.Options, "Partly cloudy")
	if correct < 0 {
		t.Fatalf("options %v do not contain the current condition", st.Question.Options)
	}

	var ans answerBody
	if got := env.do(t, http.MethodPost, base+"/answer", `{"option":`+strconv.Itoa(correct)+`}`, &ans); got != http.StatusOK {
		t.Fatalf("answer status = %d, want 200", got)
	}
	if !ans.Correct || ans.CorrectIndex != correct || ans.Score != 10 || ans.BestScore != 10 || ans.DisplayScore != 10 || !ans.NewBest {
		t.Errorf("answer = %+v, want correct with score 10", ans)
	}

	var errBody errorBody
	if got := env.do(t, http.MethodPost, base+"/answer", `{"option":0}`, &errBody); got != http.StatusConflict {
		t.Errorf("second answer status = %d, want 409", got)
	}

	if got := env.do(t, http.MethodPost, base+"/next", "", &st); got != http.StatusOK || st.Index != 1 {
		t.Errorf("next = (%d, index %d), want (200, 1)", got, st.Index)
	}
	if st.Question == nil || st.Question.Text != quiz.TextTodayHigh {
		t.Errorf("second question = %+v, want the high temperature question", st.Question)
	}

	var best struct {
		BestScore int `json:"bestScore"`
	}
	if got := env.do(t, http.MethodGet, "/api/v1/quiz/best", "", &best); got != http.StatusOK || best.BestScore != 10 {
		t.Errorf("best = (%d, %d), want (200, 10)", got, best.BestScore)
	}
	if v, ok, _ := env.kv.Get(context.Background(), quiz.BestScoreKey); !ok || v != "10" {
		t.Errorf("stored best = %q, want 10", v)
	}

	if got := env.do(t, http.MethodPost, base+"/reset", "", &st); got != http.StatusOK {
		t.Fatalf("reset status = %d", got)
	}
	if st.Index != 0 || st.Score != 0 || st.BestScore != 10 || st.DisplayScore != 10 {
		t.Errorf("state after reset = %+v, want score 0 displayed as the best 10", st)
	}

	if got := env.do(t, http.MethodGet, base, "", &st); got != http.StatusOK || st.ID == "" {
		t.Errorf("get = (%d, %+v)", got, st)
	}
}

func TestQuizErrors(t *testing.T) {
	env := newTestEnv(t)

	var st stateBody
	env.do(t, http.MethodPost, "/api/v1/quiz", "", &st)
	base := "/api/v1/quiz/" + st.ID

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"unknown session", http.MethodGet, "/api/v1/quiz/does-not-exist", "", http.StatusNotFound},
		{"unknown session answer", http.MethodPost, "/api/v1/quiz/does-not-exist/answer", `{"option":0}`, http.StatusNotFound},
		{"missing option", http.MethodPost, base + "/answer", `{}`, http.StatusBadRequest},
		{"negative option", http.MethodPost, base + "/answer", `{"option":-1}`, http.StatusBadRequest},
		{"option out of range", http.MethodPost, base + "/answer", `{"option":9}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, base + "/answer", `{"option":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorBody
			if got := env.do(t, tt.method, tt.target, tt.body, &body); got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
			if !body.Error || body.Message == "" {
				t.Errorf("body = %+v, want an error message", body)
			}
		})
	}
}

func TestCreateQuiz_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.forecasts.err = errors.New("boom")

	var body errorBody
	if got := env.do(t, http.MethodPost, "/api/v1/quiz", "", &body); got != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", got, http.StatusBadGateway)
	}
	if body.Message != LoadErrorMessage {
		t.Errorf("message = %q, want %q", body.Message, LoadErrorMessage)
	}
}
