package booking

import (
	"context"
	"time"

	"github.com/frahmantamala/workspace-booking/internal/auth"
	"github.com/frahmantamala/workspace-booking/internal/core/events"
	"github.com/frahmantamala/workspace-booking/internal/space"
)

// Filter selects active bookings. Empty fields do not constrain the query;
// DateFrom and DateTo are inclusive.
type Filter struct {
	SpaceIDs []string
	OwnerIDs []string
	DateFrom string
	DateTo   string
}

type RepositoryAPI interface {
	ListActive(ctx context.Context, f Filter) ([]Booking, error)
	GetByID(ctx context.Context, bookingID string) (*Booking, error)
	// InsertBatch stores bookings in one transaction. A booking the store
	// rejects as overlapping an active one on the same space and date is
	// skipped and returned in taken; any other failure rolls back the batch.
	InsertBatch(ctx context.Context, bookings []Booking) (saved, taken []Booking, err error)
	// UpdateStatus flips bookingID from one status to another and returns
	// ErrBookingNotFound when no row in the from status matched.
	UpdateStatus(ctx context.Context, bookingID string, from, to Status) error
	DeleteExpired(ctx context.Context, before time.Time) ([]Booking, error)
	DeleteByOwner(ctx context.Context, userID string) ([]Booking, error)
	DeleteBySpace(ctx context.Context, spaceID string) ([]Booking, error)
}

// UserDirectory resolves users for permission checks. Implementations must
// read current data on every call.
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (*auth.User, error)
	ListUsers(ctx context.Context) ([]auth.User, error)
}

type SpaceCatalog interface {
	GetSpace(ctx context.Context, spaceID string) (*space.Space, error)
	ListSpaces(ctx context.Context, floorID string) ([]*space.Space, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// AvailabilityCache stores computed availability per date. key identifies the
// floor and slot within the date.
//
// Every invalidation moves the date to a new generation. Get reports the
// generation it read at, hit or miss, and Set drops entries computed at an
// older generation.
type AvailabilityCache interface {
	Get(ctx context.Context, date, key string) (entries []SpaceAvailability, gen int64, hit bool, err error)
	Set(ctx context.Context, date, key string, gen int64, entries []SpaceAvailability, ttl time.Duration) error
	InvalidateDates(ctx context.Context, dates ...string) error
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, string) ([]SpaceAvailability, int64, bool, error) {
	return nil, 0, false, nil
}

func (NoopCache) Set(context.Context, string, string, int64, []SpaceAvailability, time.Duration) error {
	return nil
}

func (NoopCache) InvalidateDates(context.Context, ...string) error {
	return nil
}
