package booking

import (
	"github.com/frahmantamala/workspace-booking/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Evaluator", func() {
	var (
		evaluator *Evaluator
		employee  *auth.User
		manager   *auth.User
	)

	BeforeEach(func() {
		evaluator = NewEvaluator(Limits{})
		employee = &auth.User{ID: "emp", Name: "Emp", Role: auth.RoleEmployee, Department: "eng"}
		manager = &auth.User{ID: "mgr", Name: "Mgr", Role: auth.RoleManager, Department: "eng"}
	})

	active := func(id, spaceID, owner, date, from, to string) Booking {
		return Booking{ID: id, SpaceID: spaceID, OwnerUserID: owner, Date: date, Slot: rng(from, to), Status: StatusActive}
	}

	It("rejects an overlapping slot on the same space as busy", func() {
		existing := []Booking{active("b1", "R1", "other", "2026-03-02", "09:00", "13:00")}

		ev := evaluator.Evaluate(Candidate{SpaceID: "R1", Bookee: employee, Dates: []string{"2026-03-02"}, Range: rng("12:00", "15:00")}, existing)

		Expect(ev.Accepted).To(BeEmpty())
		Expect(ev.Counts.Busy).To(Equal(1))
		Expect(ev.Rejected).To(ConsistOf(Rejection{Date: "2026-03-02", Reason: ReasonResourceBusy, ConflictingBookingID: "b1"}))
	})

	It("accepts a touching slot on the same space", func() {
		existing := []Booking{active("b1", "R1", "other", "2026-03-02", "09:00", "13:00")}

		ev := evaluator.Evaluate(Candidate{SpaceID: "R1", Bookee: employee, Dates: []string{"2026-03-02"}, Range: rng("13:00", "17:00")}, existing)

		Expect(ev.Accepted).To(HaveLen(1))
		Expect(ev.Counts.Total()).To(Equal(0))
	})

	It("ignores cancelled bookings", func() {
		b := active("b1", "R1", "other", "2026-03-02", "09:00", "13:00")
		b.Status = StatusCancelled

		ev := evaluator.Evaluate(Candidate{SpaceID: "R1", Bookee: employee, Dates: []string{"2026-03-02"}, Range: rng("09:00", "13:00")}, []Booking{b})

		Expect(ev.Accepted).To(HaveLen(1))
	})

	It("books the free dates of a batch and counts the busy one", func() {
		dates := []string{"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05", "2026-03-06"}
		existing := []Booking{active("b1", "R1", "other", "2026-03-04", "09:00", "21:00")}

		ev := evaluator.Evaluate(Candidate{SpaceID: "R1", Bookee: employee, Dates: dates, Range: rng("09:00", "13:00")}, existing)

		Expect(ev.Accepted).To(HaveLen(4))
		Expect(ev.Counts).To(Equal(RejectionCounts{Busy: 1}))
		Expect(ev.Rejected[0].Date).To(Equal("2026-03-04"))
	})

	It("de-duplicates dates and processes them in ascending order", func() {
		ev := evaluator.Evaluate(Candidate{SpaceID: "R1", Bookee: employee, Dates: []string{"2026-03-03", "2026-03-02", "2026-03-03"}, Range: rng("09:00", "13:00")}, nil)

		Expect(ev.Accepted).To(HaveLen(2))
		Expect(ev.Accepted[0].Date).To(Equal("2026-03-02"))
		Expect(ev.Accepted[1].Date).To(Equal("2026-03-03"))
	})

	Describe("daily limit", func() {
		It("rejects an employee who already holds a booking that day on another space", func() {
			existing := []Booking{active("b1", "R2", "emp", "2026-03-02", "17:00", "21:00")}

			ev := evaluator.Evaluate(Candidate{SpaceID: "R1", Bookee: employee, Dates: []string{"2026-03-02"}, Range: rng("09:00", "13:00")}, existing)

			Expect(ev.Accepted).To(BeEmpty())
			Expect(ev.Counts.DailyLimit).To(Equal(1))
		})

		It("does not limit managers to one booking per day", func() {
			existing := []Booking{active("b1", "R2", "mgr", "2026-03-02", "17:00", "21:00")}

			ev := evaluator.Evaluate(Candidate{SpaceID: "R1", Bookee: manager, Dates: []string{"2026-03-02"}, Range: rng("09:00", "13:00")}, existing)

			Expect(ev.Accepted).To(HaveLen(1))
		})

		It("reports busy before the daily limit", func() {
			existing := []Booking{
				active("b1", "R1", "other", "2026-03-02", "09:00", "13:00"),
				active("b2", "R2", "emp", "2026-03-02", "17:00", "21:00"),
			}

			ev := evaluator.Evaluate(Candidate{SpaceID: "R1", Bookee: employee, Dates: []string{"2026-03-02"}, Range: rng("09:00", "13:00")}, existing)

			Expect(ev.Rejected[0].Reason).To(Equal(ReasonResourceBusy))
		})
	})

	Describe("user time conflict", func() {
		It("rejects a manager holding an overlapping booking on another space", func() {
			existing := []Booking{active("b1", "R2", "mgr", "2026-03-02", "10:00", "11:00")}

			ev := evaluator.Evaluate(Candidate{SpaceID: "R1", Bookee: manager, Dates: []string{"2026-03-02"}, Range: rng("09:00", "13:00")}, existing)

			Expect(ev.Counts.UserConflict).To(Equal(1))
			Expect(ev.Rejected[0].ConflictingBookingID).To(Equal("b1"))
		})
	})

	Describe("monthly limit", func() {
		BeforeEach(func() {
			evaluator = NewEvaluator(Limits{MonthlyLimit: 2})
		})

		It("caps an employee within a calendar month including the batch itself", func() {
			dates := []string{"2026-03-02", "2026-03-03", "2026-03-04", "2026-04-01"}

			ev := evaluator.Evaluate(Candidate{SpaceID: "R1", Bookee: employee, Dates: dates, Range: rng("09:00", "13:00")}, nil)

			Expect(ev.Accepted).To(HaveLen(3))
			Expect(ev.Counts).To(Equal(RejectionCounts{MonthlyLimit: 1}))
			Expect(ev.Rejected[0].Date).To(Equal("2026-03-04"))
		})

		It("does not apply to managers", func() {
			dates := []string{"2026-03-02", "2026-03-03", "2026-03-04"}

			ev := evaluator.Evaluate(Candidate{SpaceID: "R1", Bookee: manager, Dates: dates, Range: rng("09:00", "13:00")}, nil)

			Expect(ev.Accepted).To(HaveLen(3))
		})
	})

	It("never accepts two overlapping bookings on one space and date", func() {
		existing := []Booking{
			active("b1", "R1", "a", "2026-03-02", "09:00", "10:00"),
			active("b2", "R1", "b", "2026-03-02", "11:00", "12:00"),
		}
		for _, r := range [][2]string{{"08:00", "09:30"}, {"09:59", "11:01"}, {"10:00", "11:00"}, {"11:30", "11:45"}, {"12:00", "24:00"}} {
			candidate := rng(r[0], r[1])
			ev := NewEvaluator(Limits{}).Evaluate(Candidate{SpaceID: "R1", Bookee: manager, Dates: []string{"2026-03-02"}, Range: candidate}, existing)
			for _, acc := range ev.Accepted {
				for _, e := range existing {
					Expect(acc.Slot.Overlaps(e.Slot)).To(BeFalse(), "accepted %s overlaps %s", acc.Slot, e.Slot)
				}
			}
		}
	})
})

var _ = Describe("Summary", func() {
	emp := &auth.User{ID: "emp", Name: "Ana"}
	mgr := &auth.User{ID: "mgr", Name: "Max"}

	It("describes a clean batch", func() {
		Expect(Summary(1, RejectionCounts{}, emp, emp)).To(Equal("Booked: 1 day"))
	})

	It("names the bookee and lists skipped counts", func() {
		msg := Summary(4, RejectionCounts{Busy: 1, UserConflict: 2}, emp, mgr)
		Expect(msg).To(Equal("Booked for Ana: 4 days, skipped (busy: 1, time conflict: 2)"))
	})
})

var _ = Describe("FindConflict", func() {
	var bookings []Booking

	BeforeEach(func() {
		bookings = []Booking{
			{ID: "b1", SpaceID: "R1", OwnerUserID: "a", Date: "2026-03-02", Slot: rng("09:00", "13:00"), Status: StatusActive},
			{ID: "b2", SpaceID: "R1", OwnerUserID: "b", Date: "2026-03-02", Slot: rng("13:00", "17:00"), Status: StatusCancelled},
			{ID: "b3", SpaceID: "R2", OwnerUserID: "c", Date: "2026-03-02", Slot: rng("09:00", "21:00"), Status: StatusActive},
		}
	})

	It("returns the overlapping active booking on the same space and date", func() {
		b, ok := FindConflict("R1", "2026-03-02", rng("12:00", "14:00"), bookings)
		Expect(ok).To(BeTrue())
		Expect(b.ID).To(Equal("b1"))
	})

	It("skips cancelled bookings", func() {
		_, ok := FindConflict("R1", "2026-03-02", rng("13:00", "17:00"), bookings)
		Expect(ok).To(BeFalse())
	})

	It("only looks at the requested space and date", func() {
		_, ok := FindConflict("R1", "2026-03-03", rng("09:00", "13:00"), bookings)
		Expect(ok).To(BeFalse())

		b, ok := FindConflict("R2", "2026-03-02", rng("20:00", "21:00"), bookings)
		Expect(ok).To(BeTrue())
		Expect(b.ID).To(Equal("b3"))
	})
})
