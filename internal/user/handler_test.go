package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/expense-tracker/internal"
	userDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/frahmantamala/expense-tracker/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubRepository struct {
	users map[int64]*userDatamodel.User
	err   error
}

func (s *stubRepository) Create(context.Context, *userDatamodel.User) error { return s.err }

func (s *stubRepository) GetByID(_ context.Context, id int64) (*userDatamodel.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, internal.ErrUserNotFound
}

func (s *stubRepository) GetByEmail(context.Context, string) (*userDatamodel.User, error) {
	return nil, internal.ErrUserNotFound
}

func (s *stubRepository) ExistsByEmail(context.Context, string) (bool, error) { return false, s.err }

var _ = Describe("User Handler", func() {
	var (
		repo    *stubRepository
		handler *user.Handler
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = &stubRepository{users: map[int64]*userDatamodel.User{
			3: {ID: 3, Email: "me@example.com", Name: "Me", PasswordHash: "$2a$10$secret"},
		}}
		handler = user.NewHandler(transport.NewBaseHandler(logger), user.NewService(repo, logger))
	})

	get := func(userID int64) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		if userID > 0 {
			req = req.WithContext(internal.ContextWithUserID(req.Context(), userID))
		}
		w := httptest.NewRecorder()
		handler.GetCurrentUser(w, req)
		return w
	}

	It("should return the current user's profile without the password hash", func() {
		w := get(3)

		Expect(w.Code).To(Equal(http.StatusOK))
		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body).To(HaveKeyWithValue("email", "me@example.com"))
		Expect(body).To(HaveKeyWithValue("name", "Me"))
		Expect(w.Body.String()).NotTo(ContainSubstring("secret"))
	})

	It("should return 401 without an authenticated user", func() {
		Expect(get(0).Code).To(Equal(http.StatusUnauthorized))
	})

	It("should return 404 when the account no longer exists", func() {
		Expect(get(99).Code).To(Equal(http.StatusNotFound))
	})

	It("should hide repository failures", func() {
		repo.err = errors.New("pq: relation users does not exist")

		w := get(3)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).NotTo(ContainSubstring("relation"))
	})
})
