package space

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/workspace-booking/internal/auth"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Space handler", func() {
	var (
		repo   *mockSpaceRepository
		router chi.Router
		actor  *auth.User
	)

	BeforeEach(func() {
		repo = newMockSpaceRepository()
		repo.coworkings["C1"] = &Coworking{ID: "C1", Name: "Main"}
		repo.floors["F1"] = &Floor{ID: "F1", CoworkingID: "C1", Name: "Level 1"}
		repo.spaces["S1"] = &Space{ID: "S1", FloorID: "F1", Label: "Desk 1", Seats: 1}
		h := NewHandler(NewService(repo, &mockPurger{}, discardLogger()), discardLogger())

		actor = &auth.User{ID: "adm", Role: auth.RoleAdmin}
		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), actor)))
			})
		})
		router.Get("/coworkings", h.ListCoworkings)
		router.Post("/coworkings", h.CreateCoworking)
		router.Patch("/coworkings/{id}", h.RenameCoworking)
		router.Delete("/coworkings/{id}", h.DeleteCoworking)
		router.Get("/floors", h.ListFloors)
		router.Post("/floors", h.CreateFloor)
		router.Patch("/floors/{id}", h.RenameFloor)
		router.Delete("/floors/{id}", h.DeleteFloor)
		router.Get("/floors/{id}/spaces", h.ListSpaces)
		router.Post("/floors/{id}/spaces", h.CreateSpace)
		router.Delete("/spaces/{id}", h.DeleteSpace)
	})

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
		return rec
	}

	It("lists floors", func() {
		rec := do(http.MethodGet, "/floors", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var body struct {
			Floors []Floor `json:"floors"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Floors).To(HaveLen(1))
	})

	It("lists spaces of a floor and 404s for unknown floors", func() {
		Expect(do(http.MethodGet, "/floors/F1/spaces", nil).Code).To(Equal(http.StatusOK))
		rec := do(http.MethodGet, "/floors/F9/spaces", nil)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(rec.Body.String()).To(ContainSubstring("FLOOR_NOT_FOUND"))
	})

	It("creates a floor and a space", func() {
		Expect(do(http.MethodPost, "/floors", CreateFloorDTO{Name: "Level 2"}).Code).To(Equal(http.StatusCreated))
		Expect(do(http.MethodPost, "/floors/F1/spaces", CreateSpaceDTO{Label: "Room A", Seats: 4}).Code).To(Equal(http.StatusCreated))
	})

	It("returns 400 for invalid input", func() {
		Expect(do(http.MethodPost, "/floors/F1/spaces", CreateSpaceDTO{Label: ""}).Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 403 for non-admins", func() {
		actor = &auth.User{ID: "emp", Role: auth.RoleEmployee}
		Expect(do(http.MethodPost, "/floors", CreateFloorDTO{Name: "Level 2"}).Code).To(Equal(http.StatusForbidden))
	})

	It("deletes a space", func() {
		Expect(do(http.MethodDelete, "/spaces/S1", nil).Code).To(Equal(http.StatusNoContent))
		Expect(do(http.MethodDelete, "/spaces/S1", nil).Code).To(Equal(http.StatusNotFound))
	})

	It("filters floors by coworking", func() {
		Expect(do(http.MethodGet, "/floors?coworking_id=C1", nil).Code).To(Equal(http.StatusOK))
		rec := do(http.MethodGet, "/floors?coworking_id=C9", nil)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(rec.Body.String()).To(ContainSubstring("COWORKING_NOT_FOUND"))
	})

	It("renames and deletes a floor", func() {
		rec := do(http.MethodPatch, "/floors/F1", RenameDTO{Name: "Ground"})
		Expect(rec.Code).To(Equal(http.StatusOK))
		var f Floor
		Expect(json.Unmarshal(rec.Body.Bytes(), &f)).To(Succeed())
		Expect(f.Name).To(Equal("Ground"))

		Expect(do(http.MethodDelete, "/floors/F1", nil).Code).To(Equal(http.StatusNoContent))
		Expect(repo.spaces).To(BeEmpty())
		Expect(do(http.MethodDelete, "/floors/F1", nil).Code).To(Equal(http.StatusNotFound))
	})

	It("returns 400 for a blank floor name", func() {
		Expect(do(http.MethodPatch, "/floors/F1", RenameDTO{Name: ""}).Code).To(Equal(http.StatusBadRequest))
	})

	It("manages coworkings", func() {
		rec := do(http.MethodPost, "/coworkings", CreateCoworkingDTO{Name: "North"})
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var c Coworking
		Expect(json.Unmarshal(rec.Body.Bytes(), &c)).To(Succeed())

		Expect(do(http.MethodPatch, "/coworkings/"+c.ID, RenameDTO{Name: "North Wing"}).Code).To(Equal(http.StatusOK))

		rec = do(http.MethodGet, "/coworkings", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var body struct {
			Coworkings []Coworking `json:"coworkings"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Coworkings).To(HaveLen(2))

		Expect(do(http.MethodDelete, "/coworkings/C1", nil).Code).To(Equal(http.StatusNoContent))
		Expect(repo.floors).To(BeEmpty())
		Expect(do(http.MethodDelete, "/coworkings/C1", nil).Code).To(Equal(http.StatusNotFound))
	})

	It("returns 403 when a non-admin deletes a coworking", func() {
		actor = &auth.User{ID: "emp", Role: auth.RoleEmployee}
		Expect(do(http.MethodDelete, "/coworkings/C1", nil).Code).To(Equal(http.StatusForbidden))
		Expect(repo.coworkings).To(HaveKey("C1"))
	})
})
