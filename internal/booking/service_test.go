package booking

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/frahmantamala/workspace-booking/internal/auth"
	"github.com/frahmantamala/workspace-booking/internal/core/events"
	"github.com/frahmantamala/workspace-booking/internal/space"
	"github.com/frahmantamala/workspace-booking/internal/timerange"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BookingService", func() {
	var (
		ctx       context.Context
		repo      *mockBookingRepository
		directory *mockDirectory
		catalog   *mockCatalog
		cache     *memoryCache
		publisher *recordingPublisher
		clock     *fixedClock
		service   *Service

		employee   auth.User
		colleague  auth.User
		outsider   auth.User
		managerEng auth.User
		managerOps auth.User
		admin      auth.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		employee = auth.User{ID: "emp", Name: "Ana", Role: auth.RoleEmployee, Department: "eng"}
		colleague = auth.User{ID: "emp2", Name: "Ben", Role: auth.RoleEmployee, Department: "eng"}
		outsider = auth.User{ID: "emp3", Name: "Cid", Role: auth.RoleEmployee, Department: "ops"}
		managerEng = auth.User{ID: "mgr", Name: "Max", Role: auth.RoleManager, Department: "eng"}
		managerOps = auth.User{ID: "mgr2", Name: "Mia", Role: auth.RoleManager, Department: "ops"}
		admin = auth.User{ID: "adm", Name: "Root", Role: auth.RoleAdmin}

		repo = newMockBookingRepository()
		directory = newMockDirectory(employee, colleague, outsider, managerEng, managerOps, admin)
		catalog = &mockCatalog{spaces: []*space.Space{
			{ID: "R1", FloorID: "F1", Label: "Desk 1", Seats: 1},
			{ID: "R2", FloorID: "F1", Label: "Desk 2", Seats: 1},
			{ID: "R3", FloorID: "F2", Label: "Room A", Seats: 6},
		}}
		cache = newMemoryCache()
		publisher = &recordingPublisher{}
		clock = &fixedClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
		service = NewService(repo, directory, catalog, cache, publisher, clock, Options{Location: time.UTC}, discardLogger())
	})

	create := func(actor auth.User, req CreateRequest) *CreateResult {
		res, err := service.Create(ctx, &actor, req)
		Expect(err).NotTo(HaveOccurred())
		return res
	}

	morning := func(spaceID string, dates ...string) CreateRequest {
		return CreateRequest{SpaceID: spaceID, Dates: dates, Slot: timerange.SlotMorning}
	}

	Describe("Create", func() {
		It("books a single date and derives the expiry from the slot end", func() {
			res := create(employee, morning("R1", "2026-03-02"))

			Expect(res.Created).To(Equal(1))
			Expect(res.Message).To(Equal("Booked: 1 day"))
			b := res.Bookings[0]
			Expect(b.ID).NotTo(BeEmpty())
			Expect(b.OwnerUserID).To(Equal("emp"))
			Expect(b.BookedByUserID).To(Equal("emp"))
			Expect(b.ExpiresAt).To(BeTemporally("==", time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)))
			Expect(repo.all()).To(HaveLen(1))
			Expect(publisher.types()).To(Equal([]string{events.EventTypeBookingCreated}))
			Expect(cache.invalidated).To(ContainElement("2026-03-02"))
		})

		It("computes the expiry in the configured timezone", func() {
			loc, err := time.LoadLocation("Asia/Jakarta")
			Expect(err).NotTo(HaveOccurred())
			service = NewService(repo, directory, catalog, cache, publisher, clock, Options{Location: loc}, discardLogger())

			res := create(employee, morning("R1", "2026-03-02"))

			Expect(res.Bookings[0].ExpiresAt).To(BeTemporally("==", time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)))
		})

		It("rejects an overlapping request and accepts the touching one", func() {
			create(colleague, morning("R1", "2026-03-02"))

			res := create(employee, CreateRequest{SpaceID: "R1", Dates: []string{"2026-03-02"}, Slot: timerange.SlotCustom, From: "12:00", To: "15:00"})
			Expect(res.Created).To(Equal(0))
			Expect(res.Rejections.Busy).To(Equal(1))

			res = create(employee, CreateRequest{SpaceID: "R1", Dates: []string{"2026-03-02"}, Slot: timerange.SlotAfternoon})
			Expect(res.Created).To(Equal(1))
		})

		It("partially succeeds across a batch with one busy date", func() {
			create(colleague, morning("R1", "2026-03-04"))

			res := create(employee, morning("R1", "2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05", "2026-03-06"))

			Expect(res.Created).To(Equal(4))
			Expect(res.Rejections).To(Equal(RejectionCounts{Busy: 1}))
			Expect(res.Message).To(Equal("Booked: 4 days, skipped (busy: 1)"))
		})

		It("enforces the employee daily limit across spaces", func() {
			create(employee, CreateRequest{SpaceID: "R2", Dates: []string{"2026-03-02"}, Slot: timerange.SlotEvening})

			res := create(employee, morning("R1", "2026-03-02"))

			Expect(res.Created).To(Equal(0))
			Expect(res.Rejections.DailyLimit).To(Equal(1))
		})

		It("counts a storage-level overlap as busy", func() {
			repo.slotTaken = true

			res := create(employee, morning("R1", "2026-03-02"))

			Expect(res.Created).To(Equal(0))
			Expect(res.Rejections.Busy).To(Equal(1))
			Expect(publisher.types()).To(BeEmpty())
		})

		It("saves nothing when a write fails mid-batch", func() {
			repo.failAtInsert = 2
			repo.errorToReturn = errors.New("connection reset")

			res, err := service.Create(ctx, &employee, morning("R1", "2026-03-02", "2026-03-03", "2026-03-04"))

			Expect(res).To(BeNil())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
			Expect(repo.all()).To(BeEmpty())
			Expect(publisher.types()).To(BeEmpty())
		})

		It("rejects a date whose slot has already ended", func() {
			_, err := service.Create(ctx, &employee, morning("R1", "2026-03-02", "2026-02-20"))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidDate))
			Expect(appErr.Message).To(ContainSubstring("2026-02-20"))
			Expect(repo.all()).To(BeEmpty())
		})

		It("rejects today's slot once it is over and accepts a later one", func() {
			clock.now = time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)

			_, err := service.Create(ctx, &employee, morning("R1", "2026-03-01"))
			Expect(err).To(MatchError(ContainSubstring("has already passed")))

			res := create(employee, CreateRequest{SpaceID: "R1", Dates: []string{"2026-03-01"}, Slot: timerange.SlotEvening})
			Expect(res.Created).To(Equal(1))
		})

		DescribeTable("booking on behalf of another user",
			func(actorID, bookeeID string, allowed bool) {
				actor := directory.users[actorID]
				res, err := service.Create(ctx, actor, CreateRequest{SpaceID: "R1", BookeeID: bookeeID, Dates: []string{"2026-03-02"}, Slot: timerange.SlotMorning})
				if allowed {
					Expect(err).NotTo(HaveOccurred())
					Expect(res.Created).To(Equal(1))
					Expect(res.Bookings[0].OwnerUserID).To(Equal(bookeeID))
					Expect(res.Bookings[0].BookedByUserID).To(Equal(actorID))
				} else {
					Expect(errors.Is(err, ErrCannotBookFor)).To(BeTrue())
					Expect(repo.all()).To(BeEmpty())
				}
			},
			Entry("manager for employee of same department", "mgr", "emp", true),
			Entry("manager for employee of another department", "mgr", "emp3", false),
			Entry("manager for another manager", "mgr", "mgr2", false),
			Entry("employee for colleague", "emp", "emp2", false),
			Entry("admin for anyone", "adm", "mgr2", true),
		)

		It("names the bookee in the summary when booking for someone else", func() {
			res := create(managerEng, CreateRequest{SpaceID: "R1", BookeeID: "emp", Dates: []string{"2026-03-02"}, Slot: timerange.SlotMorning})
			Expect(res.Message).To(Equal("Booked for Ana: 1 day"))
		})

		It("re-reads the actor so a demoted manager loses on-behalf rights", func() {
			stale := managerEng
			directory.users["mgr"].Role = auth.RoleEmployee

			_, err := service.Create(ctx, &stale, CreateRequest{SpaceID: "R1", BookeeID: "emp", Dates: []string{"2026-03-02"}, Slot: timerange.SlotMorning})
			Expect(errors.Is(err, ErrCannotBookFor)).To(BeTrue())
		})

		DescribeTable("wholesale failures before any date is processed",
			func(req CreateRequest, expected error) {
				_, err := service.Create(ctx, &employee, req)
				Expect(errors.Is(err, expected)).To(BeTrue(), "got %v", err)
				Expect(repo.all()).To(BeEmpty())
			},
			Entry("inverted custom range", CreateRequest{SpaceID: "R1", Dates: []string{"2026-03-02"}, Slot: timerange.SlotCustom, From: "15:00", To: "12:00"}, internal.ErrInvalidTimeRange),
			Entry("unknown space", CreateRequest{SpaceID: "nope", Dates: []string{"2026-03-02"}, Slot: timerange.SlotMorning}, space.ErrSpaceNotFound),
			Entry("unknown bookee", CreateRequest{SpaceID: "R1", BookeeID: "ghost", Dates: []string{"2026-03-02"}, Slot: timerange.SlotMorning}, internal.ErrUserNotFound),
			Entry("no dates", CreateRequest{SpaceID: "R1", Slot: timerange.SlotMorning}, ErrNoDates),
		)

		It("rejects a malformed date", func() {
			_, err := service.Create(ctx, &employee, morning("R1", "2026-02-30"))
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidDate))
		})

		It("rejects an unknown slot", func() {
			_, err := service.Create(ctx, &employee, CreateRequest{SpaceID: "R1", Dates: []string{"2026-03-02"}, Slot: "brunch"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidSlot))
		})

		It("forbids an actor no longer in the directory", func() {
			ghost := auth.User{ID: "ghost", Role: auth.RoleAdmin}
			_, err := service.Create(ctx, &ghost, morning("R1", "2026-03-02"))
			Expect(errors.Is(err, internal.ErrForbidden)).To(BeTrue())
		})

		It("applies the configured monthly limit", func() {
			service = NewService(repo, directory, catalog, cache, publisher, clock, Options{Limits: Limits{MonthlyLimit: 2}}, discardLogger())
			create(employee, morning("R2", "2026-03-10"))

			res := create(employee, morning("R1", "2026-03-02", "2026-03-03", "2026-04-01"))

			Expect(res.Created).To(Equal(2))
			Expect(res.Rejections.MonthlyLimit).To(Equal(1))
			Expect(res.Rejected[0].Date).To(Equal("2026-03-03"))
		})
	})

	Describe("Cancel", func() {
		It("lets the owner cancel and the slot be rebooked", func() {
			res := create(employee, morning("R1", "2026-03-02"))
			id := res.Bookings[0].ID

			Expect(service.Cancel(ctx, &employee, id)).To(Succeed())

			stored, err := repo.GetByID(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(StatusCancelled))

			again := create(colleague, morning("R1", "2026-03-02"))
			Expect(again.Created).To(Equal(1))
			Expect(publisher.types()).To(ContainElement(events.EventTypeBookingCancelled))
		})

		It("returns not found for a cancelled booking", func() {
			res := create(employee, morning("R1", "2026-03-02"))
			id := res.Bookings[0].ID
			Expect(service.Cancel(ctx, &employee, id)).To(Succeed())

			err := service.Cancel(ctx, &employee, id)
			Expect(errors.Is(err, ErrBookingNotFound)).To(BeTrue())
		})

		It("returns not found for an unknown booking", func() {
			err := service.Cancel(ctx, &admin, "missing")
			Expect(errors.Is(err, ErrBookingNotFound)).To(BeTrue())
		})

		DescribeTable("permission",
			func(ownerID, actorID string, allowed bool) {
				owner := directory.users[ownerID]
				res := create(*owner, morning("R1", "2026-03-02"))

				err := service.Cancel(ctx, directory.users[actorID], res.Bookings[0].ID)
				if allowed {
					Expect(err).NotTo(HaveOccurred())
				} else {
					Expect(errors.Is(err, ErrCannotCancel)).To(BeTrue())
				}
			},
			Entry("employee cancels a colleague's booking", "emp2", "emp", false),
			Entry("manager cancels own department employee", "emp", "mgr", true),
			Entry("manager cancels other department employee", "emp3", "mgr", false),
			Entry("manager cancels another manager", "mgr2", "mgr", false),
			Entry("admin cancels anyone", "mgr2", "adm", true),
		)

		It("denies a manager when the owner no longer exists", func() {
			repo.add(Booking{ID: "orphan", SpaceID: "R1", OwnerUserID: "gone", Date: "2026-03-02", Slot: rng("09:00", "13:00"), Status: StatusActive, ExpiresAt: time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)})

			err := service.Cancel(ctx, &managerEng, "orphan")
			Expect(errors.Is(err, ErrCannotCancel)).To(BeTrue())
			Expect(service.Cancel(ctx, &admin, "orphan")).To(Succeed())
		})
	})

	Describe("ExpireSweep", func() {
		It("deletes bookings whose slot has ended and is idempotent", func() {
			clock.now = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
			create(employee, CreateRequest{SpaceID: "R1", Dates: []string{"2026-03-01"}, Slot: timerange.SlotEvening})
			create(colleague, morning("R1", "2026-03-02"))

			clock.now = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
			n, err := service.ExpireSweep(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))
			Expect(repo.all()).To(HaveLen(1))
			Expect(publisher.types()).To(ContainElement(events.EventTypeBookingsExpired))

			n, err = service.ExpireSweep(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(0))
		})

		It("keeps a booking that expires exactly now", func() {
			create(employee, morning("R1", "2026-03-02"))
			clock.now = time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)

			n, err := service.ExpireSweep(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(0))
		})

		It("wraps repository failures", func() {
			repo.setError(errors.New("db down"))
			_, err := service.ExpireSweep(ctx)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})

	Describe("ListBookings", func() {
		BeforeEach(func() {
			create(employee, morning("R1", "2026-03-02"))
			create(colleague, morning("R2", "2026-03-02"))
			create(outsider, morning("R3", "2026-03-02"))
			create(managerEng, CreateRequest{SpaceID: "R1", Dates: []string{"2026-03-02"}, Slot: timerange.SlotEvening})
		})

		It("returns the actor's own bookings for mine", func() {
			list, err := service.ListBookings(ctx, &employee, ScopeMine, "", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].OwnerUserID).To(Equal("emp"))
		})

		It("returns department bookings for a manager's team", func() {
			list, err := service.ListBookings(ctx, &managerEng, ScopeTeam, "", "")
			Expect(err).NotTo(HaveOccurred())
			owners := []string{}
			for _, b := range list {
				owners = append(owners, b.OwnerUserID)
			}
			Expect(owners).To(ConsistOf("emp", "emp2", "mgr"))
		})

		It("restricts all to administrators", func() {
			_, err := service.ListBookings(ctx, &managerEng, ScopeAll, "", "")
			Expect(errors.Is(err, internal.ErrAdminRequired)).To(BeTrue())

			list, err := service.ListBookings(ctx, &admin, ScopeAll, "", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(4))
		})

		It("filters by date window", func() {
			list, err := service.ListBookings(ctx, &admin, ScopeAll, "2026-03-03", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())
		})
	})

	Describe("Availability", func() {
		It("reports holders and free spaces and caches the result", func() {
			create(employee, morning("R1", "2026-03-02"))

			spaces, err := service.Availability(ctx, "F1", "2026-03-02", rng("10:00", "11:00"))
			Expect(err).NotTo(HaveOccurred())
			Expect(spaces).To(HaveLen(2))
			Expect(spaces[0].Free).To(BeFalse())
			Expect(spaces[0].Holder.UserName).To(Equal("Ana"))
			Expect(spaces[0].Holder.From).To(Equal("09:00"))
			Expect(spaces[1].Free).To(BeTrue())

			_, err = service.Availability(ctx, "F1", "2026-03-02", rng("10:00", "11:00"))
			Expect(err).NotTo(HaveOccurred())
			Expect(cache.hits).To(Equal(1))
		})

		It("drops the cached date when a booking changes", func() {
			_, err := service.Availability(ctx, "F1", "2026-03-02", rng("09:00", "13:00"))
			Expect(err).NotTo(HaveOccurred())

			create(employee, morning("R2", "2026-03-02"))

			spaces, err := service.Availability(ctx, "F1", "2026-03-02", rng("09:00", "13:00"))
			Expect(err).NotTo(HaveOccurred())
			Expect(cache.hits).To(Equal(0))
			Expect(spaces[1].Free).To(BeFalse())
		})

		It("does not cache a result computed across an invalidation", func() {
			repo.onListActive = func() {
				create(colleague, morning("R1", "2026-03-02"))
			}

			spaces, err := service.Availability(ctx, "F1", "2026-03-02", rng("09:00", "13:00"))
			Expect(err).NotTo(HaveOccurred())
			Expect(cache.entries).NotTo(HaveKey("2026-03-02"))

			spaces, err = service.Availability(ctx, "F1", "2026-03-02", rng("09:00", "13:00"))
			Expect(err).NotTo(HaveOccurred())
			Expect(cache.hits).To(Equal(0))
			Expect(spaces[0].Free).To(BeFalse())
		})

		It("fails for an unknown floor", func() {
			_, err := service.Availability(ctx, "nope", "2026-03-02", rng("09:00", "13:00"))
			Expect(errors.Is(err, space.ErrFloorNotFound)).To(BeTrue())
		})
	})

	Describe("cascades", func() {
		It("removes bookings of a deleted user and space", func() {
			create(employee, morning("R1", "2026-03-02"))
			create(colleague, morning("R2", "2026-03-02"))

			n, err := service.DeleteByOwner(ctx, "emp")
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(1)))

			n, err = service.DeleteBySpace(ctx, "R2")
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(1)))
			Expect(repo.all()).To(BeEmpty())
		})
	})
})
