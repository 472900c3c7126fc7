package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = ginkgo.Describe("Auth handler", func() {
	var (
		mockRepo *mockUserRepository
		service  *Service
		handler  *Handler
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		tokenGen := NewJWTTokenGenerator("test-access-secret-0123456789abcdef", "test-refresh-secret-0123456789abcdef", time.Minute, time.Hour)
		service = NewService(mockRepo, tokenGen, bcrypt.MinCost, discardLogger())
		handler = NewHandler(service, discardLogger())
	})

	login := func(email string) string {
		tokens, err := service.Authenticate(context.Background(), LoginDTO{Email: email, Password: "correct_password"})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return tokens.AccessToken
	}

	ginkgo.Describe("Login", func() {
		ginkgo.It("should return tokens", func() {
			body, _ := json.Marshal(LoginDTO{Email: "user@example.com", Password: "correct_password"})
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			var tokens AuthTokens
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &tokens)).To(gomega.Succeed())
			gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("should return 401 for bad credentials", func() {
			body, _ := json.Marshal(LoginDTO{Email: "user@example.com", Password: "nope"})
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("INVALID_CREDENTIALS"))
		})

		ginkgo.It("should return 400 for malformed json", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{"))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("should create the user and return 201", func() {
			body, _ := json.Marshal(RegisterDTO{Email: "fresh@example.com", Password: "secret1", Name: "Fresh"})
			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Register(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"role":"employee"`))
		})

		ginkgo.It("should return 409 for a taken email", func() {
			body, _ := json.Marshal(RegisterDTO{Email: "user@example.com", Password: "secret1", Name: "Dup"})
			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Register(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusConflict))
		})
	})

	ginkgo.Describe("AuthMiddleware", func() {
		var (
			seen *User
			next http.Handler
		)

		ginkgo.BeforeEach(func() {
			seen = nil
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = UserFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})
		})

		ginkgo.It("should reject requests without a token", func() {
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(seen).To(gomega.BeNil())
		})

		ginkgo.It("should load the current directory record into the context", func() {
			token := login("user@example.com")
			mockRepo.users["u-1"].Department = "sales"

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
			gomega.Expect(seen).ToNot(gomega.BeNil())
			gomega.Expect(seen.Department).To(gomega.Equal("sales"))
		})

		ginkgo.It("should reject tokens of deleted users", func() {
			token := login("user@example.com")
			delete(mockRepo.users, "u-1")

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Describe("RBAC guards", func() {
		serve := func(mw func(http.Handler) http.Handler, u *User) int {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if u != nil {
				req = req.WithContext(ContextWithUser(req.Context(), u))
			}
			rec := httptest.NewRecorder()
			mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})).ServeHTTP(rec, req)
			return rec.Code
		}

		ginkgo.It("should gate admin routes on the admin role", func() {
			rbac := service.RBACAuthorization()
			gomega.Expect(serve(rbac.RequireAdmin(), &User{ID: "a", Role: RoleAdmin})).To(gomega.Equal(http.StatusOK))
			gomega.Expect(serve(rbac.RequireAdmin(), &User{ID: "m", Role: RoleManager})).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(serve(rbac.RequireAdmin(), nil)).To(gomega.Equal(http.StatusUnauthorized))
		})
	})
})
