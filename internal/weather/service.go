package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/i474232898/whether/internal/calendar"
	"github.com/i474232898/whether/internal/observability"
)

var (
	// ErrNoProvider is returned when the service was built without a provider.
	ErrNoProvider = errors.New("no weather provider configured")
	// ErrUnknownLocation is returned when the provider answers but does not
	// recognize the location.
	ErrUnknownLocation = errors.New("location not recognized by provider")
)

// ForecastRequest is the dashboard selection for one forecast view.
type ForecastRequest struct {
	Location   string
	Weekday    time.Weekday
	TimeOfDay  calendar.TimeOfDay
	WeekOffset int
	Count      int
}

// Service turns a dashboard selection into forecast cards.
type Service struct {
	store    PreferenceStore
	provider Provider
	labeler  *calendar.Labeler
	clock    clockwork.Clock
	location *time.Location
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the real clock, mainly for tests.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLocation sets the zone whose wall clock defines "today".
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.location = loc }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a new Service.
func NewService(store PreferenceStore, provider Provider, labeler *calendar.Labeler, opts ...Option) *Service {
	s := &Service{
		store:    store,
		provider: provider,
		labeler:  labeler,
		clock:    clockwork.NewRealClock(),
		location: time.Local,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.labeler == nil {
		s.labeler = calendar.NewLabeler(nil, time.Sunday)
	}
	return s
}

// Now is the single read of the current moment; everything below it takes
// the reference time as a parameter.
func (s *Service) Now() time.Time {
	return s.clock.Now().In(s.location)
}

// WeekdayOptions lists the day-selection control entries for this week.
func (s *Service) WeekdayOptions() []calendar.WeekdayOption {
	return s.labeler.WeekdayOptions(s.Now())
}

// ResolveLocation asks the provider for the canonical address of query.
// On failure the returned Location still carries the query but no address.
func (s *Service) ResolveLocation(ctx context.Context, query string) (Location, error) {
	loc := Location{Query: strings.TrimSpace(query)}
	if loc.Query == "" {
		return loc, fmt.Errorf("%w: empty location", calendar.ErrInvalidArgument)
	}
	if s.provider == nil {
		return loc, ErrNoProvider
	}

	start := s.clock.Now()
	addr, err := s.provider.ResolveLocation(ctx, loc.Query)
	s.metrics.ObserveProvider(s.provider.Name(), "resolve", err, s.clock.Since(start))
	if err != nil {
		s.logger.Warn("location lookup failed",
			zap.String("provider", s.provider.Name()),
			zap.String("query", loc.Query),
			zap.Error(err))
		return loc, fmt.Errorf("resolve location %q: %w", loc.Query, err)
	}

	loc.ResolvedAddress = addr
	return loc, nil
}

// Forecast computes the upcoming dates for req and fetches one card per date
// concurrently. A failed fetch marks only its own card as failed.
func (s *Service) Forecast(ctx context.Context, req ForecastRequest) (Forecast, error) {
	location := strings.TrimSpace(req.Location)
	if location == "" {
		return Forecast{}, fmt.Errorf("%w: empty location", calendar.ErrInvalidArgument)
	}
	if s.provider == nil {
		return Forecast{}, ErrNoProvider
	}

	now := s.Now()

	hours, err := req.TimeOfDay.HourRange()
	if err != nil {
		return Forecast{}, err
	}
	bounds, err := calendar.Bounds(req.TimeOfDay, now)
	if err != nil {
		return Forecast{}, err
	}
	window, err := calendar.ViewWindow(req.TimeOfDay, now)
	if err != nil {
		return Forecast{}, err
	}
	dates, err := calendar.UpcomingOccurrences(req.Weekday, req.WeekOffset, req.Count, now)
	if err != nil {
		return Forecast{}, err
	}

	s.logger.Debug("building forecast",
		zap.String("location", location),
		zap.Stringer("weekday", req.Weekday),
		zap.String("timeOfDay", string(req.TimeOfDay)),
		zap.Int("cards", len(dates)))

	// A failed lookup fails every card but still returns the forecast.
	loc, locateErr := s.locate(ctx, location)

	cards := make([]Card, len(dates))
	var wg sync.WaitGroup
	for i, date := range dates {
		i, date := i, date
		wg.Add(1)
		go func() {
			defer wg.Done()
			cards[i] = s.buildCard(ctx, loc.Key(), date, req.TimeOfDay, now, locateErr)
		}()
	}
	wg.Wait()

	return Forecast{
		Location:  location,
		TimeOfDay: req.TimeOfDay,
		HourRange: hours,
		Bounds:    bounds,
		Window:    window,
		Cards:     cards,
	}, nil
}

// locate pins query once per forecast for providers that implement Locator.
// Other providers receive the query as is.
func (s *Service) locate(ctx context.Context, query string) (Location, error) {
	loc := Location{Query: query}
	locator, ok := s.provider.(Locator)
	if !ok {
		return loc, nil
	}

	start := s.clock.Now()
	key, err := locator.Locate(ctx, query)
	s.metrics.ObserveProvider(s.provider.Name(), "locate", err, s.clock.Since(start))
	if err == nil && key == "" {
		err = fmt.Errorf("%w: %q", ErrUnknownLocation, query)
	}
	if err != nil {
		s.logger.Warn("location lookup failed",
			zap.String("provider", s.provider.Name()),
			zap.String("query", query),
			zap.Error(err))
		return loc, err
	}

	loc.ResolvedAddress = key
	return loc, nil
}

func (s *Service) buildCard(ctx context.Context, location string, date time.Time, tod calendar.TimeOfDay, now time.Time, locateErr error) Card {
	card := Card{
		ID:         uuid.NewString(),
		Date:       date,
		Label:      s.labeler.RelativeDay(date, now),
		Status:     CardFailed,
		Icon:       ConditionsIcon(ConditionUnknown),
		Conditions: FormatConditions("", nil),
		Hours:      []HourView{},
	}

	var day DayForecast
	err := locateErr
	if err == nil {
		start := s.clock.Now()
		day, err = s.provider.FetchDay(ctx, location, date)
		s.metrics.ObserveProvider(s.provider.Name(), "day", err, s.clock.Since(start))
	}
	if err != nil {
		s.logger.Warn("forecast fetch failed",
			zap.String("provider", s.provider.Name()),
			zap.String("location", location),
			zap.Time("date", date),
			zap.Error(err))
		s.metrics.ObserveCard(string(CardFailed))
		return card
	}

	// Every card shares the request day's axis so the series overlay.
	points, err := calendar.Reanchor(day.Hours, tod, now)
	if err != nil {
		s.metrics.ObserveCard(string(CardFailed))
		return card
	}
	for _, p := range points {
		card.Hours = append(card.Hours, HourView{AnchoredPoint: p, Label: calendar.HourLabel(p.At)})
	}

	card.Status = CardLoaded
	card.Icon = ConditionsIcon(day.Icon)
	card.Conditions = FormatConditions(day.Conditions, day.Temp)
	card.Winds = FormatWinds(day.WindSpeed)
	card.Precipitation = FormatPrecipitation(day.Precip, day.PrecipType)
	card.PrecipIcon = PrecipIcon(day.PrecipType)
	card.Summary = SummarizeWindow(points)
	s.metrics.ObserveCard(string(CardLoaded))
	return card
}

// Probe checks that the provider answers a location lookup for query.
func (s *Service) Probe(ctx context.Context, query string) error {
	loc, err := s.ResolveLocation(ctx, query)
	if err != nil {
		return err
	}
	if !loc.Resolved() {
		return fmt.Errorf("%w: %q", ErrUnknownLocation, query)
	}
	return nil
}

// SavePreferences validates and stores the dashboard selection.
func (s *Service) SavePreferences(p Preferences) (Preferences, error) {
	p.Location = strings.TrimSpace(p.Location)
	if p.Location == "" {
		return Preferences{}, fmt.Errorf("%w: empty location", calendar.ErrInvalidArgument)
	}
	if !calendar.ValidWeekday(p.Weekday) {
		return Preferences{}, fmt.Errorf("%w: weekday %d", calendar.ErrInvalidArgument, int(p.Weekday))
	}
	if _, err := p.TimeOfDay.HourRange(); err != nil {
		return Preferences{}, err
	}

	p.UpdatedAt = s.clock.Now().UTC()
	s.store.SavePreferences(p)
	return p, nil
}

// GetPreferences delegates to the underlying store.
func (s *Service) GetPreferences() (Preferences, error) {
	return s.store.GetPreferences()
}

// RecentPreferences delegates to the underlying store.
func (s *Service) RecentPreferences(limit int) []Preferences {
	return s.store.RecentPreferences(limit)
}
