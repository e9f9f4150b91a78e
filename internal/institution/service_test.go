package institution_test

import (
	"context"
	"errors"
	"testing"

	"github.com/frahmantamala/finance-tracker/internal"
	institutionDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/institution"
	"github.com/frahmantamala/finance-tracker/internal/institution"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestInstitution(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Institution Suite")
}

type MockRepository struct {
	items      map[string]*institutionDatamodel.Institution
	accounts   map[string]int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		items:    map[string]*institutionDatamodel.Institution{},
		accounts: map[string]int64{},
	}
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) Create(ctx context.Context, i *institutionDatamodel.Institution) error {
	if m.shouldFail {
		return m.failError
	}
	i.ID = uuid.NewString()
	m.items[i.ID] = i
	return nil
}

func (m *MockRepository) GetByID(ctx context.Context, userID, id string) (*institutionDatamodel.Institution, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	if i, ok := m.items[id]; ok && i.UserID == userID {
		return i, nil
	}
	return nil, nil
}

func (m *MockRepository) List(ctx context.Context, userID string) ([]*institutionDatamodel.Institution, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*institutionDatamodel.Institution
	for _, i := range m.items {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *MockRepository) Update(ctx context.Context, i *institutionDatamodel.Institution) error {
	if m.shouldFail {
		return m.failError
	}
	m.items[i.ID] = i
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, userID, id string) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.items, id)
	return nil
}

func (m *MockRepository) CountAccounts(ctx context.Context, userID, id string) (int64, error) {
	return m.accounts[id], nil
}

var _ = Describe("Institution Service", func() {
	var (
		repo    *MockRepository
		service *institution.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		service = institution.NewService(repo, logger.Discard())
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("should create an institution for the caller", func() {
			inst, err := service.Create(ctx, "u1", institution.CreateInstitutionDTO{Name: "  Chase ", Location: "NYC"})
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Name).To(Equal("Chase"))
			Expect(inst.UserID).To(Equal("u1"))
		})

		It("should require a name", func() {
			_, err := service.Create(ctx, "u1", institution.CreateInstitutionDTO{Location: "NYC"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(appErr.Message).To(Equal("name is required"))
		})

		It("should map repository errors to 500", func() {
			repo.SetShouldFail(true, errors.New("db down"))
			_, err := service.Create(ctx, "u1", institution.CreateInstitutionDTO{Name: "Chase"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
		})
	})

	Describe("ownership", func() {
		It("should hide other users' institutions", func() {
			inst, err := service.Create(ctx, "u1", institution.CreateInstitutionDTO{Name: "Chase"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Get(ctx, "u2", inst.ID)
			Expect(err).To(MatchError(institution.ErrInstitutionNotFound))

			err = service.Delete(ctx, "u2", inst.ID)
			Expect(err).To(MatchError(institution.ErrInstitutionNotFound))
		})
	})

	Describe("Update", func() {
		It("should only change provided fields", func() {
			inst, err := service.Create(ctx, "u1", institution.CreateInstitutionDTO{Name: "Chase", Location: "NYC"})
			Expect(err).NotTo(HaveOccurred())

			desc := "main bank"
			updated, err := service.Update(ctx, "u1", inst.ID, institution.UpdateInstitutionDTO{Description: &desc})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Chase"))
			Expect(updated.Location).To(Equal("NYC"))
			Expect(updated.Description).To(Equal("main bank"))
		})

		It("should reject a blank name", func() {
			inst, err := service.Create(ctx, "u1", institution.CreateInstitutionDTO{Name: "Chase"})
			Expect(err).NotTo(HaveOccurred())

			blank := "  "
			_, err = service.Update(ctx, "u1", inst.ID, institution.UpdateInstitutionDTO{Name: &blank})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		It("should refuse while accounts remain", func() {
			inst, err := service.Create(ctx, "u1", institution.CreateInstitutionDTO{Name: "Chase"})
			Expect(err).NotTo(HaveOccurred())
			repo.accounts[inst.ID] = 2

			Expect(service.Delete(ctx, "u1", inst.ID)).To(MatchError(institution.ErrInstitutionInUse))

			repo.accounts[inst.ID] = 0
			Expect(service.Delete(ctx, "u1", inst.ID)).To(Succeed())
			Expect(repo.items).To(BeEmpty())
		})
	})
})
