package booking

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/workspace-booking/internal/auth"
	"github.com/frahmantamala/workspace-booking/internal/space"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Booking handler", func() {
	var (
		repo      *mockBookingRepository
		directory *mockDirectory
		router    chi.Router
		employee  auth.User
		admin     auth.User
		actor     *auth.User
	)

	BeforeEach(func() {
		employee = auth.User{ID: "emp", Name: "Ana", Role: auth.RoleEmployee, Department: "eng"}
		admin = auth.User{ID: "adm", Name: "Root", Role: auth.RoleAdmin}
		repo = newMockBookingRepository()
		directory = newMockDirectory(employee, admin)
		catalog := &mockCatalog{spaces: []*space.Space{{ID: "R1", FloorID: "F1", Label: "Desk 1", Seats: 1}}}
		clock := &fixedClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
		svc := NewService(repo, directory, catalog, newMemoryCache(), &recordingPublisher{}, clock, Options{}, discardLogger())
		h := NewHandler(svc, discardLogger())

		actor = &employee
		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), actor)))
			})
		})
		router.Post("/bookings", h.CreateBookings)
		router.Get("/bookings", h.ListBookings)
		router.Delete("/bookings/{id}", h.CancelBooking)
		router.Get("/floors/{id}/availability", h.Availability)
		router.Get("/slots", h.ListSlots)
	})

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	Describe("POST /bookings", func() {
		It("creates bookings and reports the summary", func() {
			rec := do(http.MethodPost, "/bookings", CreateBookingDTO{SpaceID: "R1", Dates: []string{"2026-03-02", "2026-03-03"}, Slot: "morning"})

			Expect(rec.Code).To(Equal(http.StatusCreated))
			var resp CreateBookingResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Created).To(Equal(2))
			Expect(resp.Bookings[0].From).To(Equal("09:00"))
			Expect(resp.Bookings[0].To).To(Equal("13:00"))
			Expect(resp.Message).To(Equal("Booked: 2 days"))
		})

		It("returns 200 with rejections when nothing could be booked", func() {
			do(http.MethodPost, "/bookings", CreateBookingDTO{SpaceID: "R1", Dates: []string{"2026-03-02"}, Slot: "full"})
			actor = &admin

			rec := do(http.MethodPost, "/bookings", CreateBookingDTO{SpaceID: "R1", Dates: []string{"2026-03-02"}, Slot: "evening"})

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"busy":1`))
		})

		It("returns 400 for an inverted custom range", func() {
			rec := do(http.MethodPost, "/bookings", CreateBookingDTO{SpaceID: "R1", Dates: []string{"2026-03-02"}, Slot: "custom", From: "15:00", To: "12:00"})

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("INVALID_TIME_RANGE"))
		})

		It("returns 400 when required fields are missing", func() {
			rec := do(http.MethodPost, "/bookings", CreateBookingDTO{})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 403 when booking for someone not allowed", func() {
			rec := do(http.MethodPost, "/bookings", CreateBookingDTO{SpaceID: "R1", UserID: "adm", Dates: []string{"2026-03-02"}, Slot: "morning"})

			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(rec.Body.String()).To(ContainSubstring("CANNOT_BOOK_FOR_USER"))
		})

		It("returns 404 for an unknown space", func() {
			rec := do(http.MethodPost, "/bookings", CreateBookingDTO{SpaceID: "nope", Dates: []string{"2026-03-02"}, Slot: "morning"})
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("GET /bookings", func() {
		It("lists the caller's bookings", func() {
			do(http.MethodPost, "/bookings", CreateBookingDTO{SpaceID: "R1", Dates: []string{"2026-03-02"}, Slot: "morning"})

			rec := do(http.MethodGet, "/bookings?scope=mine", nil)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"owner_user_id":"emp"`))
		})

		It("rejects scope all for non-admins", func() {
			rec := do(http.MethodGet, "/bookings?scope=all", nil)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("rejects an unknown scope", func() {
			rec := do(http.MethodGet, "/bookings?scope=everyone", nil)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("DELETE /bookings/{id}", func() {
		It("cancels the booking", func() {
			do(http.MethodPost, "/bookings", CreateBookingDTO{SpaceID: "R1", Dates: []string{"2026-03-02"}, Slot: "morning"})
			id := repo.all()[0].ID

			rec := do(http.MethodDelete, "/bookings/"+id, nil)
			Expect(rec.Code).To(Equal(http.StatusNoContent))

			rec = do(http.MethodDelete, "/bookings/"+id, nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("GET /floors/{id}/availability", func() {
		It("shows the holder of a busy space", func() {
			do(http.MethodPost, "/bookings", CreateBookingDTO{SpaceID: "R1", Dates: []string{"2026-03-02"}, Slot: "morning"})

			rec := do(http.MethodGet, "/floors/F1/availability?date=2026-03-02&slot=custom&from=10:00&to=11:00", nil)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp AvailabilityResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Spaces).To(HaveLen(1))
			Expect(resp.Spaces[0].Free).To(BeFalse())
			Expect(resp.Spaces[0].Holder.UserName).To(Equal("Ana"))
		})

		It("requires a valid date", func() {
			rec := do(http.MethodGet, "/floors/F1/availability?date=tomorrow", nil)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	It("lists the named slots", func() {
		rec := do(http.MethodGet, "/slots", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"from":"09:00"`))
	})
})
