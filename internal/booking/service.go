package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/frahmantamala/workspace-booking/internal/auth"
	"github.com/frahmantamala/workspace-booking/internal/core/events"
	"github.com/frahmantamala/workspace-booking/internal/space"
	"github.com/frahmantamala/workspace-booking/internal/timerange"
	"github.com/frahmantamala/workspace-booking/pkg/logger"
	"github.com/google/uuid"
)

type Scope string

const (
	ScopeMine Scope = "mine"
	ScopeTeam Scope = "team"
	ScopeAll  Scope = "all"
)

func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeMine:
		return ScopeMine, nil
	case ScopeTeam:
		return ScopeTeam, nil
	case ScopeAll:
		return ScopeAll, nil
	}
	return "", internal.NewValidationFieldError("scope", fmt.Sprintf("unknown scope %q", s), internal.ErrCodeValidationFailed)
}

type Options struct {
	Limits   Limits
	Location *time.Location
	CacheTTL time.Duration
}

// Service is the booking ledger. Every operation reloads the acting user from
// the directory so role and department changes take effect immediately.
type Service struct {
	repo      RepositoryAPI
	users     UserDirectory
	spaces    SpaceCatalog
	cache     AvailabilityCache
	publisher EventPublisher
	evaluator *Evaluator
	clock     Clock
	loc       *time.Location
	cacheTTL  time.Duration
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, users UserDirectory, spaces SpaceCatalog, cache AvailabilityCache, publisher EventPublisher, clock Clock, opts Options, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	return &Service{
		repo:      repo,
		users:     users,
		spaces:    spaces,
		cache:     cache,
		publisher: publisher,
		evaluator: NewEvaluator(opts.Limits),
		clock:     clock,
		loc:       opts.Location,
		cacheTTL:  opts.CacheTTL,
		logger:    logger,
	}
}

// CreateRequest asks for one space over several dates. BookeeID defaults to the actor.
type CreateRequest struct {
	SpaceID  string
	BookeeID string
	Dates    []string
	Slot     timerange.SlotID
	From     string
	To       string
}

type CreateResult struct {
	Created    int             `json:"created_count"`
	Rejections RejectionCounts `json:"rejections"`
	Bookings   []Booking       `json:"bookings"`
	Rejected   []Rejection     `json:"rejected"`
	Message    string          `json:"message"`
}

// reloadActor returns the current directory record for the caller.
func (s *Service) reloadActor(ctx context.Context, actor *auth.User) (*auth.User, error) {
	if actor == nil {
		return nil, auth.ErrUnauthenticated
	}
	fresh, err := s.users.GetUser(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrForbidden
		}
		return nil, internal.NewInternalError("failed to load user", err)
	}
	return fresh, nil
}

// Create books req.SpaceID for every requested date that passes the conflict
// and limit rules. Per-date rejections are reported in the result; only
// request-wide precondition failures are returned as errors.
func (s *Service) Create(ctx context.Context, actor *auth.User, req CreateRequest) (*CreateResult, error) {
	actor, err := s.reloadActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	rng, err := timerange.ResolveSlot(req.Slot, req.From, req.To)
	if err != nil {
		return nil, err
	}

	dates, err := validateDates(req.Dates)
	if err != nil {
		return nil, err
	}
	if err := s.rejectElapsed(dates, rng); err != nil {
		return nil, err
	}

	if _, err := s.spaces.GetSpace(ctx, req.SpaceID); err != nil {
		return nil, err
	}

	bookeeID := req.BookeeID
	if bookeeID == "" {
		bookeeID = actor.ID
	}
	bookee, err := s.users.GetUser(ctx, bookeeID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewInternalError("failed to load bookee", err)
	}

	if !auth.CanCreateFor(actor, bookee) {
		s.log(ctx).Warn("booking on behalf denied", "user_id", actor.ID, "bookee_id", bookee.ID, "role", actor.Role)
		return nil, ErrCannotBookFor
	}

	if _, err := s.ExpireSweep(ctx); err != nil {
		s.log(ctx).Warn("expiry sweep before create failed", "error", err)
	}

	existing, err := s.loadWorkingSet(ctx, req.SpaceID, bookee.ID, dates)
	if err != nil {
		return nil, err
	}

	ev := s.evaluator.Evaluate(Candidate{SpaceID: req.SpaceID, Bookee: bookee, Dates: dates, Range: rng}, existing)

	result := &CreateResult{
		Rejections: ev.Counts,
		Rejected:   ev.Rejected,
		Bookings:   make([]Booking, 0, len(ev.Accepted)),
	}

	now := s.clock.Now().UTC()
	pending := make([]Booking, 0, len(ev.Accepted))
	for _, b := range ev.Accepted {
		b.ID = uuid.NewString()
		b.BookedByUserID = actor.ID
		b.CreatedAt = now
		b.ExpiresAt, err = ExpiresAt(b.Date, b.Slot.To, s.loc)
		if err != nil {
			return nil, internal.NewInternalError("failed to compute expiry", err)
		}
		b.ExpiresAt = b.ExpiresAt.UTC()
		pending = append(pending, b)
	}

	if len(pending) > 0 {
		saved, taken, err := s.repo.InsertBatch(ctx, pending)
		if err != nil {
			s.log(ctx).Error("failed to insert bookings", "space_id", req.SpaceID, "count", len(pending), "error", err)
			return nil, internal.NewInternalError("failed to save bookings", err)
		}
		for _, b := range taken {
			result.Rejected = append(result.Rejected, Rejection{Date: b.Date, Reason: ReasonResourceBusy})
			result.Rejections.add(ReasonResourceBusy)
		}
		result.Bookings = append(result.Bookings, saved...)
	}
	sort.Slice(result.Rejected, func(i, j int) bool { return result.Rejected[i].Date < result.Rejected[j].Date })

	result.Created = len(result.Bookings)
	result.Message = Summary(result.Created, result.Rejections, bookee, actor)

	s.invalidate(ctx, uniqueDates(result.Bookings)...)
	for _, b := range result.Bookings {
		s.publish(ctx, events.NewBookingCreatedEvent(b.ID, b.SpaceID, b.OwnerUserID, b.BookedByUserID, b.Date, b.Slot.From.String(), b.Slot.To.String()))
	}

	s.log(ctx).Info("bookings created",
		"user_id", actor.ID,
		"bookee_id", bookee.ID,
		"space_id", req.SpaceID,
		"created", result.Created,
		"rejected", result.Rejections.Total())
	return result, nil
}

func validateDates(dates []string) ([]string, error) {
	if len(dates) == 0 {
		return nil, ErrNoDates
	}
	dates = NormalizeDates(dates)
	if len(dates) > MaxDatesPerRequest {
		return nil, internal.NewValidationFieldError("dates", fmt.Sprintf("at most %d dates per request", MaxDatesPerRequest), internal.ErrCodeInvalidDate)
	}
	for _, d := range dates {
		if _, err := ParseDate(d); err != nil {
			return nil, err
		}
	}
	return dates, nil
}

// rejectElapsed fails when a requested slot ended before now in the booking
// timezone. Such a booking would be swept as soon as it was stored.
func (s *Service) rejectElapsed(dates []string, rng timerange.Range) error {
	now := s.clock.Now()
	for _, d := range dates {
		end, err := ExpiresAt(d, rng.To, s.loc)
		if err != nil {
			return err
		}
		if end.Before(now) {
			return internal.NewValidationFieldError("dates", fmt.Sprintf("date %s has already passed", d), internal.ErrCodeInvalidDate)
		}
	}
	return nil
}

// loadWorkingSet fetches the active bookings the evaluator needs: everything
// on the space across the requested dates, and everything the bookee holds
// across the requested months.
func (s *Service) loadWorkingSet(ctx context.Context, spaceID, bookeeID string, dates []string) ([]Booking, error) {
	first, last := dates[0], dates[len(dates)-1]

	onSpace, err := s.repo.ListActive(ctx, Filter{SpaceIDs: []string{spaceID}, DateFrom: first, DateTo: last})
	if err != nil {
		s.log(ctx).Error("failed to load space bookings", "space_id", spaceID, "error", err)
		return nil, internal.NewInternalError("failed to load bookings", err)
	}

	from, to := first, last
	if s.evaluator.limits.MonthlyLimit > 0 {
		from, _, _ = MonthBounds(first)
		_, to, _ = MonthBounds(last)
	}
	owned, err := s.repo.ListActive(ctx, Filter{OwnerIDs: []string{bookeeID}, DateFrom: from, DateTo: to})
	if err != nil {
		s.log(ctx).Error("failed to load bookee bookings", "bookee_id", bookeeID, "error", err)
		return nil, internal.NewInternalError("failed to load bookings", err)
	}

	seen := make(map[string]struct{}, len(onSpace)+len(owned))
	out := make([]Booking, 0, len(onSpace)+len(owned))
	for _, b := range append(onSpace, owned...) {
		if _, dup := seen[b.ID]; dup {
			continue
		}
		seen[b.ID] = struct{}{}
		out = append(out, b)
	}
	return out, nil
}

// Cancel marks an active booking cancelled.
func (s *Service) Cancel(ctx context.Context, actor *auth.User, bookingID string) error {
	actor, err := s.reloadActor(ctx, actor)
	if err != nil {
		return err
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		return internal.NewInternalError("failed to load booking", err)
	}
	if !b.IsActive() {
		return ErrBookingNotFound
	}

	owner, err := s.users.GetUser(ctx, b.OwnerUserID)
	if err != nil {
		if !errors.Is(err, internal.ErrUserNotFound) {
			return internal.NewInternalError("failed to load booking owner", err)
		}
		owner = nil
	}

	if !auth.CanCancel(actor, b.OwnerUserID, owner) {
		s.log(ctx).Warn("booking cancellation denied", "user_id", actor.ID, "booking_id", b.ID, "owner_user_id", b.OwnerUserID)
		return ErrCannotCancel
	}

	if err := s.repo.UpdateStatus(ctx, b.ID, StatusActive, StatusCancelled); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.log(ctx).Error("failed to cancel booking", "booking_id", b.ID, "error", err)
		return internal.NewInternalError("failed to cancel booking", err)
	}

	s.invalidate(ctx, b.Date)
	s.publish(ctx, events.NewBookingCancelledEvent(b.ID, b.SpaceID, b.OwnerUserID, actor.ID, b.Date))
	s.log(ctx).Info("booking cancelled", "booking_id", b.ID, "user_id", actor.ID, "owner_user_id", b.OwnerUserID)
	return nil
}

// ExpireSweep deletes every booking whose slot ended before now. It is safe
// to call repeatedly.
func (s *Service) ExpireSweep(ctx context.Context) (int, error) {
	now := s.clock.Now()
	removed, err := s.repo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, internal.NewInternalError("failed to sweep expired bookings", err)
	}
	if len(removed) == 0 {
		return 0, nil
	}

	dates := uniqueDates(removed)
	s.invalidate(ctx, dates...)
	s.publish(ctx, events.NewBookingsExpiredEvent(len(removed), dates, now))
	s.log(ctx).Info("expired bookings removed", "count", len(removed))
	return len(removed), nil
}

// ListBookings returns active bookings visible to actor in scope, optionally
// bounded by an inclusive date window.
func (s *Service) ListBookings(ctx context.Context, actor *auth.User, scope Scope, dateFrom, dateTo string) ([]Booking, error) {
	actor, err := s.reloadActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	for _, d := range []string{dateFrom, dateTo} {
		if d == "" {
			continue
		}
		if _, err := ParseDate(d); err != nil {
			return nil, err
		}
	}

	f := Filter{DateFrom: dateFrom, DateTo: dateTo}
	switch scope {
	case ScopeMine:
		f.OwnerIDs = []string{actor.ID}
	case ScopeTeam:
		users, err := s.users.ListUsers(ctx)
		if err != nil {
			return nil, internal.NewInternalError("failed to list users", err)
		}
		for _, u := range auth.AllowedBookees(actor, users) {
			f.OwnerIDs = append(f.OwnerIDs, u.ID)
		}
		if len(f.OwnerIDs) == 0 {
			return []Booking{}, nil
		}
	case ScopeAll:
		if !actor.IsAdmin() {
			return nil, internal.ErrAdminRequired
		}
	default:
		return nil, internal.NewValidationFieldError("scope", "unknown scope", internal.ErrCodeValidationFailed)
	}

	if _, err := s.ExpireSweep(ctx); err != nil {
		s.log(ctx).Warn("expiry sweep before list failed", "error", err)
	}

	bookings, err := s.repo.ListActive(ctx, f)
	if err != nil {
		return nil, internal.NewInternalError("failed to list bookings", err)
	}
	return bookings, nil
}

// Availability reports, for every space on floorID, whether it is free for
// rng on date and who holds it otherwise.
func (s *Service) Availability(ctx context.Context, floorID, date string, rng timerange.Range) ([]SpaceAvailability, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}

	spaces, err := s.spaces.ListSpaces(ctx, floorID)
	if err != nil {
		return nil, err
	}

	if _, err := s.ExpireSweep(ctx); err != nil {
		s.log(ctx).Warn("expiry sweep before availability failed", "error", err)
	}

	key := availabilityKey(floorID, rng)
	cached, gen, hit, err := s.cache.Get(ctx, date, key)
	if err != nil {
		s.log(ctx).Warn("availability cache read failed", "date", date, "error", err)
	} else if hit && sameSpaces(cached, spaces) {
		return cached, nil
	}

	ids := make([]string, 0, len(spaces))
	for _, sp := range spaces {
		ids = append(ids, sp.ID)
	}
	var bookings []Booking
	if len(ids) > 0 {
		bookings, err = s.repo.ListActive(ctx, Filter{SpaceIDs: ids, DateFrom: date, DateTo: date})
		if err != nil {
			return nil, internal.NewInternalError("failed to load bookings", err)
		}
	}

	names := map[string]string{}
	out := make([]SpaceAvailability, 0, len(spaces))
	for _, sp := range spaces {
		entry := SpaceAvailability{SpaceID: sp.ID, Label: sp.Label, Seats: sp.Seats, Free: true}
		if b, busy := FindConflict(sp.ID, date, rng, bookings); busy {
			entry.Free = false
			entry.Holder = &HolderSummary{
				BookingID: b.ID,
				UserID:    b.OwnerUserID,
				UserName:  s.userName(ctx, names, b.OwnerUserID),
				From:      b.Slot.From.String(),
				To:        b.Slot.To.String(),
			}
		}
		out = append(out, entry)
	}

	if err := s.cache.Set(ctx, date, key, gen, out, s.cacheTTL); err != nil {
		s.log(ctx).Warn("availability cache write failed", "date", date, "error", err)
	}
	return out, nil
}

func (s *Service) userName(ctx context.Context, memo map[string]string, userID string) string {
	if name, ok := memo[userID]; ok {
		return name
	}
	name := ""
	if u, err := s.users.GetUser(ctx, userID); err == nil {
		name = u.Name
	}
	memo[userID] = name
	return name
}

// DeleteByOwner removes every booking owned by userID.
func (s *Service) DeleteByOwner(ctx context.Context, userID string) (int64, error) {
	removed, err := s.repo.DeleteByOwner(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, uniqueDates(removed)...)
	return int64(len(removed)), nil
}

// DeleteBySpace removes every booking held on spaceID.
func (s *Service) DeleteBySpace(ctx context.Context, spaceID string) (int64, error) {
	removed, err := s.repo.DeleteBySpace(ctx, spaceID)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, uniqueDates(removed)...)
	return int64(len(removed)), nil
}

// log prefers the request-scoped logger carrying trace and user ids.
func (s *Service) log(ctx context.Context) *slog.Logger {
	return logger.FromOr(ctx, s.logger)
}

func (s *Service) invalidate(ctx context.Context, dates ...string) {
	if len(dates) == 0 {
		return
	}
	if err := s.cache.InvalidateDates(ctx, dates...); err != nil {
		s.log(ctx).Warn("availability cache invalidation failed", "dates", dates, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, evt events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log(ctx).Warn("failed to publish event", "event_type", evt.EventType(), "error", err)
	}
}

func availabilityKey(floorID string, rng timerange.Range) string {
	return floorID + "|" + rng.String()
}

func sameSpaces(cached []SpaceAvailability, spaces []*space.Space) bool {
	if len(cached) != len(spaces) {
		return false
	}
	for i, sp := range spaces {
		c := cached[i]
		if c.SpaceID != sp.ID || c.Label != sp.Label || c.Seats != sp.Seats {
			return false
		}
	}
	return true
}

func uniqueDates(bookings []Booking) []string {
	dates := make([]string, 0, len(bookings))
	for _, b := range bookings {
		dates = append(dates, b.Date)
	}
	return NormalizeDates(dates)
}

// Summary renders the outcome of a batch create for the caller.
func Summary(created int, counts RejectionCounts, bookee, actor *auth.User) string {
	who := ""
	if bookee != nil && actor != nil && bookee.ID != actor.ID {
		who = " for " + bookee.Name
	}
	days := "days"
	if created == 1 {
		days = "day"
	}

	var parts []string
	if counts.Busy > 0 {
		parts = append(parts, fmt.Sprintf("busy: %d", counts.Busy))
	}
	if counts.DailyLimit > 0 {
		parts = append(parts, fmt.Sprintf("daily limit: %d", counts.DailyLimit))
	}
	if counts.MonthlyLimit > 0 {
		parts = append(parts, fmt.Sprintf("monthly limit: %d", counts.MonthlyLimit))
	}
	if counts.UserConflict > 0 {
		parts = append(parts, fmt.Sprintf("time conflict: %d", counts.UserConflict))
	}

	msg := fmt.Sprintf("Booked%s: %d %s", who, created, days)
	if len(parts) > 0 {
		msg += ", skipped (" + strings.Join(parts, ", ") + ")"
	}
	return msg
}
