package user

import (
	"context"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/frahmantamala/workspace-booking/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("User Service", func() {
	var (
		ctx     context.Context
		repo    *mockUserRepository
		purger  *mockPurger
		service *Service
		admin   *User
		manager *User
		ana     *User
		budi    *User
		other   *User
	)

	BeforeEach(func() {
		ctx = context.Background()
		admin = &User{ID: "adm", Name: "Admin", Role: auth.RoleAdmin, Department: "ops"}
		manager = &User{ID: "mgr", Name: "Mira", Role: auth.RoleManager, Department: "design"}
		ana = &User{ID: "ana", Name: "Ana", Role: auth.RoleEmployee, Department: "design"}
		budi = &User{ID: "budi", Name: "Budi", Role: auth.RoleEmployee, Department: "design"}
		other = &User{ID: "oth", Name: "Omar", Role: auth.RoleEmployee, Department: "finance"}
		repo = newMockUserRepository(admin, manager, ana, budi, other)
		purger = &mockPurger{}
		service = NewService(repo, purger, discardLogger())
	})

	Describe("ListBookable", func() {
		It("gives employees only themselves", func() {
			out, err := service.ListBookable(ctx, ana.Principal())
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HaveLen(1))
			Expect(out[0].ID).To(Equal("ana"))
			Expect(out[0].Self).To(BeTrue())
		})

		It("gives managers themselves and employees of their department", func() {
			out, err := service.ListBookable(ctx, manager.Principal())
			Expect(err).NotTo(HaveOccurred())
			ids := make([]string, 0, len(out))
			for _, u := range out {
				ids = append(ids, u.ID)
			}
			Expect(ids).To(ConsistOf("mgr", "ana", "budi"))
		})

		It("gives admins everyone", func() {
			out, err := service.ListBookable(ctx, admin.Principal())
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HaveLen(5))
		})
	})

	Describe("List", func() {
		It("is admin only", func() {
			_, err := service.List(ctx, ana.Principal())
			Expect(err).To(MatchError(internal.ErrAdminRequired))

			users, err := service.List(ctx, admin.Principal())
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(5))
		})
	})

	Describe("UpdateRole", func() {
		It("changes the role", func() {
			u, err := service.UpdateRole(ctx, admin.Principal(), "ana", auth.RoleManager)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Role).To(Equal(auth.RoleManager))
		})

		It("rejects unknown roles", func() {
			_, err := service.UpdateRole(ctx, admin.Principal(), "ana", auth.Role("owner"))
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidRole))
		})

		It("requires an admin", func() {
			_, err := service.UpdateRole(ctx, manager.Principal(), "ana", auth.RoleManager)
			Expect(err).To(MatchError(internal.ErrAdminRequired))
		})

		It("returns not found for unknown users", func() {
			_, err := service.UpdateRole(ctx, admin.Principal(), "ghost", auth.RoleManager)
			Expect(err).To(MatchError(ErrNotFound))
		})
	})

	Describe("Delete", func() {
		It("purges bookings and removes the user", func() {
			Expect(service.Delete(ctx, admin.Principal(), "ana")).To(Succeed())
			Expect(purger.owners).To(Equal([]string{"ana"}))
			Expect(repo.users).NotTo(HaveKey("ana"))
		})

		It("refuses to delete the acting admin", func() {
			Expect(service.Delete(ctx, admin.Principal(), "adm")).To(MatchError(ErrCannotDeleteSelf))
			Expect(repo.users).To(HaveKey("adm"))
		})

		It("returns not found before purging unknown users", func() {
			Expect(service.Delete(ctx, admin.Principal(), "ghost")).To(MatchError(ErrNotFound))
			Expect(purger.owners).To(BeEmpty())
		})

		It("keeps the user when purging fails", func() {
			purger.returnError = true
			Expect(service.Delete(ctx, admin.Principal(), "ana")).To(HaveOccurred())
			Expect(repo.users).To(HaveKey("ana"))
		})

		It("requires an admin", func() {
			Expect(service.Delete(ctx, manager.Principal(), "ana")).To(MatchError(internal.ErrAdminRequired))
		})
	})
})
