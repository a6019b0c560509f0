package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/staybook/internal/blocks"
	"github.com/example/staybook/internal/calendar"
	"github.com/example/staybook/internal/ics"
	"github.com/example/staybook/internal/persistence"
)

// BlockRuleRepository captures the persistence operations for recurring blocks.
type BlockRuleRepository interface {
	CreateBlockRule(ctx context.Context, rule persistence.BlockRule) error
	ListBlockRulesForUnit(ctx context.Context, unitID string) ([]persistence.BlockRule, error)
	DeleteBlockRule(ctx context.Context, id string) error
}

// UnitReader is the narrow unit lookup calendar rendering depends on.
type UnitReader interface {
	GetUnit(ctx context.Context, id string) (persistence.Unit, error)
}

// MonthViewParams identifies the month grid to render.
type MonthViewParams struct {
	UnitID    string
	Reference time.Time
}

// WeekViewParams identifies the week grid to render. ScrollOffset is the
// horizontal scroll position of the client's hour grid; the current-time
// indicator re-anchors against it.
type WeekViewParams struct {
	UnitID       string
	Focused      time.Time
	ScrollOffset float64
}

// MonthView is the rendered month projection: a 6-week cell run with stays
// attached, plus the expanded blocked days falling inside the visible window.
type MonthView struct {
	Reference time.Time
	Cells     []calendar.CalendarCell
	Blocks    []blocks.Block
}

// WeekView is the rendered week projection. Indicator is nil whenever today's
// column is outside the visible 7-day window.
type WeekView struct {
	Focused   time.Time
	Columns   []calendar.GridColumn
	Indicator *calendar.Indicator
	Blocks    []blocks.Block
}

// CalendarServiceConfig collects the collaborators a CalendarService needs.
type CalendarServiceConfig struct {
	Units        UnitReader
	Reservations ReservationRepository
	BlockRules   BlockRuleRepository
	Normalizer   *calendar.Normalizer
	Geometry     calendar.Geometry
	IDGenerator  func() string
	Now          func() time.Time
	CacheTTL     time.Duration
	Logger       *slog.Logger
}

// CalendarService renders stay calendars from stored reservations and block
// rules. Rendering is read-only; reservation snapshots are cached per unit
// and invalidated whenever the unit's bookings change.
type CalendarService struct {
	units        UnitReader
	reservations ReservationRepository
	blockRules   BlockRuleRepository
	normalizer   *calendar.Normalizer
	segmenter    *calendar.Segmenter
	geometry     calendar.Geometry
	blocks       *blocks.Engine
	exporter     *ics.Exporter
	idGenerator  func() string
	now          func() time.Time
	cache        *snapshotCache
	logger       *slog.Logger
}

// NewCalendarService constructs a calendar service from the given config.
func NewCalendarService(cfg CalendarServiceConfig) *CalendarService {
	normalizer := cfg.Normalizer
	if normalizer == nil {
		normalizer = calendar.NewNormalizer(nil)
	}
	geometry := cfg.Geometry
	if geometry == (calendar.Geometry{}) {
		geometry = calendar.DefaultGeometry
	}
	idGenerator := cfg.IDGenerator
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &CalendarService{
		units:        cfg.Units,
		reservations: cfg.Reservations,
		blockRules:   cfg.BlockRules,
		normalizer:   normalizer,
		segmenter:    calendar.NewSegmenter(normalizer),
		geometry:     geometry,
		blocks:       blocks.NewEngine(normalizer.Location()),
		exporter:     ics.NewExporter(normalizer, now),
		idGenerator:  idGenerator,
		now:          now,
		cache:        newSnapshotCache(cfg.CacheTTL, 0, now),
		logger:       defaultLogger(cfg.Logger),
	}
}

// SetDefaultHours overrides the check-in and check-out substitution hours.
func (s *CalendarService) SetDefaultHours(checkIn, checkOut int) {
	if s == nil {
		return
	}
	s.segmenter.SetDefaultHours(checkIn, checkOut)
}

func (s *CalendarService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CalendarService", operation, attrs...)
}

// Invalidate drops a unit's cached reservation snapshot. Reservation writes
// call this so the next render observes the change.
func (s *CalendarService) Invalidate(unitID string) {
	if s == nil {
		return
	}
	s.cache.Invalidate(unitID)
}

// MonthView renders the month grid containing the reference date.
func (s *CalendarService) MonthView(ctx context.Context, principal Principal, params MonthViewParams) (view MonthView, err error) {
	if s == nil {
		err = fmt.Errorf("CalendarService is nil")
		return
	}

	logger := s.loggerWith(ctx, "MonthView",
		"principal_id", principal.AccountID,
		"unit_id", params.UnitID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to render month view", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	if principal.AccountID == "" {
		err = ErrUnauthorized
		return
	}

	reference := params.Reference
	if reference.IsZero() {
		reference = s.now()
	}
	reference = reference.In(s.normalizer.Location())

	var intervals []calendar.ReservationInterval
	intervals, err = s.intervalsFor(ctx, params.UnitID)
	if err != nil {
		return
	}

	today := s.today()
	cells := calendar.BuildMonth(reference, today)
	cells = s.segmenter.SegmentMonth(intervals, cells)

	var expanded []blocks.Block
	if len(cells) > 0 {
		windowStart := cells[0].Date
		windowEnd := cells[len(cells)-1].Date.AddDate(0, 0, 1)
		expanded, err = s.expandBlocks(ctx, params.UnitID, windowStart, windowEnd)
		if err != nil {
			return
		}
	}

	view = MonthView{Reference: reference, Cells: cells, Blocks: expanded}
	return
}

// WeekView renders the 7-day hour grid around the focused date.
func (s *CalendarService) WeekView(ctx context.Context, principal Principal, params WeekViewParams) (view WeekView, err error) {
	if s == nil {
		err = fmt.Errorf("CalendarService is nil")
		return
	}

	logger := s.loggerWith(ctx, "WeekView",
		"principal_id", principal.AccountID,
		"unit_id", params.UnitID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to render week view", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	if principal.AccountID == "" {
		err = ErrUnauthorized
		return
	}

	focused := params.Focused
	if focused.IsZero() {
		focused = s.now()
	}
	focused = focused.In(s.normalizer.Location())

	var intervals []calendar.ReservationInterval
	intervals, err = s.intervalsFor(ctx, params.UnitID)
	if err != nil {
		return
	}

	columns := calendar.BuildWeek(focused)
	columns = s.segmenter.SegmentWeek(intervals, columns)

	var indicator *calendar.Indicator
	now := s.now().In(s.normalizer.Location())
	if pos, ok := s.geometry.Position(now, columns, params.ScrollOffset); ok {
		indicator = &pos
	}

	var expanded []blocks.Block
	if len(columns) > 0 {
		windowStart := columns[0].Date
		windowEnd := columns[len(columns)-1].Date.AddDate(0, 0, 1)
		expanded, err = s.expandBlocks(ctx, params.UnitID, windowStart, windowEnd)
		if err != nil {
			return
		}
	}

	view = WeekView{Focused: columns[len(columns)/2].Date, Columns: columns, Indicator: indicator, Blocks: expanded}
	return
}

// ExportICS serialises a unit's reservations as an iCalendar feed.
func (s *CalendarService) ExportICS(ctx context.Context, principal Principal, unitID string) (feed string, err error) {
	if s == nil {
		err = fmt.Errorf("CalendarService is nil")
		return
	}
	if s.units == nil {
		err = fmt.Errorf("unit repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "ExportICS",
		"principal_id", principal.AccountID,
		"unit_id", unitID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to export calendar feed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "calendar feed exported")
	}()

	if principal.AccountID == "" {
		err = ErrUnauthorized
		return
	}

	var unit persistence.Unit
	unit, err = s.units.GetUnit(ctx, unitID)
	if err != nil {
		err = mapReservationRepoError(err)
		return
	}

	var intervals []calendar.ReservationInterval
	intervals, err = s.intervalsFor(ctx, unitID)
	if err != nil {
		return
	}

	feed = s.exporter.Export(unit.Title, intervals)
	return
}

// CreateBlockRule validates and persists a recurring blocked period.
func (s *CalendarService) CreateBlockRule(ctx context.Context, params CreateBlockRuleParams) (rule BlockRule, err error) {
	if s == nil {
		err = fmt.Errorf("CalendarService is nil")
		return
	}
	if s.blockRules == nil {
		err = fmt.Errorf("block rule repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateBlockRule",
		"principal_id", params.Principal.AccountID,
		"unit_id", params.UnitID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create block rule", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("rule_id", rule.ID).InfoContext(ctx, "block rule created")
	}()

	if params.Principal.AccountID == "" {
		err = ErrUnauthorized
		return
	}

	vErr := s.validateBlockRuleInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	record := persistence.BlockRule{
		ID:        s.idGenerator(),
		UnitID:    params.UnitID,
		Label:     strings.TrimSpace(params.Input.Label),
		Frequency: params.Input.Frequency,
		Weekdays:  params.Input.Weekdays,
		StartsOn:  s.normalizer.DateOf(params.Input.StartsOn),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ends := strings.TrimSpace(params.Input.EndsOn); ends != "" {
		endsOn := s.normalizer.DateOf(ends)
		record.EndsOn = &endsOn
	}

	if err = s.blockRules.CreateBlockRule(ctx, record); err != nil {
		err = mapReservationRepoError(err)
		return
	}

	rule = blockRuleFromRecord(record)
	return
}

// ListBlockRules returns a unit's recurring block rules.
func (s *CalendarService) ListBlockRules(ctx context.Context, principal Principal, unitID string) (rules []BlockRule, err error) {
	if s == nil {
		err = fmt.Errorf("CalendarService is nil")
		return
	}
	if s.blockRules == nil {
		return nil, nil
	}
	if principal.AccountID == "" {
		err = ErrUnauthorized
		return
	}

	var raw []persistence.BlockRule
	raw, err = s.blockRules.ListBlockRulesForUnit(ctx, unitID)
	if err != nil {
		err = mapReservationRepoError(err)
		return
	}

	rules = make([]BlockRule, 0, len(raw))
	for _, record := range raw {
		rules = append(rules, blockRuleFromRecord(record))
	}
	return
}

// DeleteBlockRule removes a recurring block rule.
func (s *CalendarService) DeleteBlockRule(ctx context.Context, principal Principal, ruleID string) error {
	if s == nil {
		return fmt.Errorf("CalendarService is nil")
	}
	if s.blockRules == nil {
		return fmt.Errorf("block rule repository not configured")
	}
	if principal.AccountID == "" {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "DeleteBlockRule",
		"principal_id", principal.AccountID,
		"rule_id", ruleID,
	)

	if err := s.blockRules.DeleteBlockRule(ctx, ruleID); err != nil {
		err = mapReservationRepoError(err)
		logger.ErrorContext(ctx, "failed to delete block rule", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "block rule deleted")
	return nil
}

func (s *CalendarService) intervalsFor(ctx context.Context, unitID string) ([]calendar.ReservationInterval, error) {
	if cached, ok := s.cache.Get(unitID); ok {
		return cached, nil
	}
	if s.reservations == nil {
		return nil, fmt.Errorf("reservation repository not configured")
	}

	records, err := s.reservations.ListReservationsForUnit(ctx, unitID)
	if err != nil {
		return nil, mapReservationRepoError(err)
	}

	intervals := make([]calendar.ReservationInterval, 0, len(records))
	for _, record := range records {
		intervals = append(intervals, intervalFromRecord(record, s.normalizer))
	}

	s.cache.Store(unitID, intervals)
	return intervals, nil
}

func (s *CalendarService) expandBlocks(ctx context.Context, unitID string, windowStart, windowEnd time.Time) ([]blocks.Block, error) {
	if s.blockRules == nil {
		return nil, nil
	}

	records, err := s.blockRules.ListBlockRulesForUnit(ctx, unitID)
	if err != nil {
		return nil, mapReservationRepoError(err)
	}

	var expanded []blocks.Block
	for _, record := range records {
		rule := blocks.Rule{
			ID:        record.ID,
			UnitID:    record.UnitID,
			Label:     record.Label,
			Frequency: blocks.Frequency(record.Frequency),
			Weekdays:  record.Weekdays,
			StartsOn:  record.StartsOn,
			EndsOn:    record.EndsOn,
		}
		occurrences, err := s.blocks.Expand(rule, windowStart, windowEnd)
		if err != nil {
			// A malformed stored rule must not take the whole view down.
			s.logger.Warn("skipping unexpandable block rule", "rule_id", record.ID, "error", err)
			continue
		}
		expanded = append(expanded, occurrences...)
	}
	return expanded, nil
}

func (s *CalendarService) validateBlockRuleInput(input BlockRuleInput) *ValidationError {
	vErr := &ValidationError{}

	freq := blocks.Frequency(input.Frequency)
	if freq != blocks.FrequencyDaily && freq != blocks.FrequencyWeekly {
		vErr.add("frequency", "frequency must be daily or weekly")
	}
	if freq == blocks.FrequencyWeekly && len(input.Weekdays) == 0 {
		vErr.add("weekdays", "weekly rules need at least one weekday")
	}
	if s.normalizer.DateOf(input.StartsOn).IsZero() {
		vErr.add("starts_on", "start date must carry a valid date")
	}
	if ends := strings.TrimSpace(input.EndsOn); ends != "" && s.normalizer.DateOf(ends).IsZero() {
		vErr.add("ends_on", "end date must carry a valid date")
	}

	return vErr
}

func (s *CalendarService) today() time.Time {
	now := s.now().In(s.normalizer.Location())
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.normalizer.Location())
}
