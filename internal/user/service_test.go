package user_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/frahmantamala/finance-tracker/internal"
	userDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/user"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

type MockRepository struct {
	users      map[string]*userDatamodel.User
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{users: make(map[string]*userDatamodel.User)}
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	if m.shouldFail {
		return m.failError
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	m.users[u.ID] = u
	return nil
}

func (m *MockRepository) find(match func(*userDatamodel.User) bool) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, u := range m.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*userDatamodel.User, error) {
	return m.find(func(u *userDatamodel.User) bool { return u.ID == id })
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	return m.find(func(u *userDatamodel.User) bool { return u.Email == email })
}

func (m *MockRepository) GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	return m.find(func(u *userDatamodel.User) bool { return u.Username == username })
}

func (m *MockRepository) GetByAPIKey(ctx context.Context, key string) (*userDatamodel.User, error) {
	return m.find(func(u *userDatamodel.User) bool { return u.APIKey != nil && *u.APIKey == key })
}

func (m *MockRepository) UpdateAPIKey(ctx context.Context, id, key string) error {
	if m.shouldFail {
		return m.failError
	}
	u, ok := m.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.APIKey = &key
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

var _ = Describe("User Service", func() {
	var (
		repo      *MockRepository
		publisher *recordingPublisher
		service   *user.Service
		ctx       context.Context
		dto       user.SignupDTO
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		publisher = &recordingPublisher{}
		service = user.NewService(repo, publisher, bcrypt.MinCost, logger.Discard())
		ctx = context.Background()
		dto = user.SignupDTO{
			Email:     "  Jane@Example.com ",
			Username:  "jane",
			Password:  "s3cret-pass",
			FirstName: "Jane",
			LastName:  "Doe",
		}
	})

	Describe("Signup", func() {
		It("should create the user with a hashed password and an api key", func() {
			u, err := service.Signup(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.ID).NotTo(BeEmpty())
			Expect(u.Email).To(Equal("jane@example.com"))
			Expect(u.APIKey).To(HaveLen(64))
			Expect(bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass"))).To(Succeed())
			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].EventType()).To(Equal(events.EventTypeUserSignedUp))
		})

		It("should reject a duplicate email", func() {
			_, err := service.Signup(ctx, dto)
			Expect(err).NotTo(HaveOccurred())

			dto.Username = "someone-else"
			_, err = service.Signup(ctx, dto)
			Expect(err).To(MatchError(user.ErrEmailTaken))
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(appErr.Message).To(Equal("User email already exists"))
		})

		It("should reject a duplicate username", func() {
			_, err := service.Signup(ctx, dto)
			Expect(err).NotTo(HaveOccurred())

			dto.Email = "other@example.com"
			_, err = service.Signup(ctx, dto)
			Expect(err).To(MatchError(user.ErrUsernameTaken))
		})

		It("should validate required fields", func() {
			_, err := service.Signup(ctx, user.SignupDTO{Email: "jane@example.com"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(appErr.Message).To(Equal("username is required"))
		})

		It("should wrap repository failures as internal errors", func() {
			repo.SetShouldFail(true, errors.New("connection refused"))
			_, err := service.Signup(ctx, dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
		})
	})

	Describe("RegenerateAPIKey", func() {
		It("should replace the stored key", func() {
			u, err := service.Signup(ctx, dto)
			Expect(err).NotTo(HaveOccurred())

			key, err := service.RegenerateAPIKey(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(HaveLen(64))
			Expect(key).NotTo(Equal(u.APIKey))

			reloaded, err := service.GetByID(ctx, u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.APIKey).To(Equal(key))
		})

		It("should return not found for unknown users", func() {
			_, err := service.RegenerateAPIKey(ctx, "missing")
			Expect(err).To(MatchError(user.ErrUserNotFound))
		})
	})
})
