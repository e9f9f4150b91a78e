package category

import (
	"context"
	"io"
	"log/slog"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/database"
	categoryDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/category"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
)

type RepositoryAPI interface {
	CreateType(ctx context.Context, t *categoryDatamodel.CategoryType) error
	ListTypes(ctx context.Context, userID string) ([]*categoryDatamodel.CategoryType, error)
	GetTypeByID(ctx context.Context, userID, id string) (*categoryDatamodel.CategoryType, error)
	GetTypeByName(ctx context.Context, userID, name string) (*categoryDatamodel.CategoryType, error)
	DeleteType(ctx context.Context, userID, id string) error

	CreateGroup(ctx context.Context, g *categoryDatamodel.CategoryGroup) error
	ListGroups(ctx context.Context, userID string) ([]*categoryDatamodel.CategoryGroup, error)
	GetGroupByID(ctx context.Context, userID, id string) (*categoryDatamodel.CategoryGroup, error)
	GetGroupByName(ctx context.Context, userID, name string) (*categoryDatamodel.CategoryGroup, error)
	DeleteGroup(ctx context.Context, userID, id string) error

	Create(ctx context.Context, c *categoryDatamodel.Category) error
	List(ctx context.Context, userID string) ([]*categoryDatamodel.Category, error)
	GetByID(ctx context.Context, userID, id string) (*categoryDatamodel.Category, error)
	GetByName(ctx context.Context, userID, name string) (*categoryDatamodel.Category, error)
	Delete(ctx context.Context, userID, id string) error

	CountCategoriesByType(ctx context.Context, userID, typeID string) (int64, error)
	CountCategoriesByGroup(ctx context.Context, userID, groupID string) (int64, error)
	CountTransactions(ctx context.Context, userID, categoryID string) (int64, error)

	// RunInTx calls fn with a repository bound to one database transaction.
	RunInTx(ctx context.Context, fn func(repo RepositoryAPI) error) error
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// ----------------- TYPES -----------------

func (s *Service) CreateType(ctx context.Context, userID string, dto NameDTO) (*CategoryType, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetTypeByName(ctx, userID, dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to create category type", err)
	}
	if existing != nil {
		return nil, ErrTypeExists
	}

	dm := &categoryDatamodel.CategoryType{UserID: userID, Name: dto.Name}
	if err := s.repo.CreateType(ctx, dm); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrTypeExists
		}
		s.logger.Error("failed to create category type", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to create category type", err)
	}
	return TypeFromDataModel(dm), nil
}

func (s *Service) ListTypes(ctx context.Context, userID string) ([]*CategoryType, error) {
	rows, err := s.repo.ListTypes(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list category types", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to list category types", err)
	}
	out := make([]*CategoryType, 0, len(rows))
	for _, row := range rows {
		out = append(out, TypeFromDataModel(row))
	}
	return out, nil
}

func (s *Service) DeleteType(ctx context.Context, userID, id string) error {
	dm, err := s.repo.GetTypeByID(ctx, userID, id)
	if err != nil {
		return internal.NewInternalError("failed to load category type", err)
	}
	if dm == nil {
		return ErrTypeNotFound
	}

	n, err := s.repo.CountCategoriesByType(ctx, userID, id)
	if err != nil {
		return internal.NewInternalError("failed to delete category type", err)
	}
	if n > 0 {
		return ErrTypeInUse
	}

	if err := s.repo.DeleteType(ctx, userID, id); err != nil {
		s.logger.Error("failed to delete category type", "type_id", id, "error", err)
		return internal.NewInternalError("failed to delete category type", err)
	}
	return nil
}

// ----------------- GROUPS -----------------

func (s *Service) CreateGroup(ctx context.Context, userID string, dto NameDTO) (*CategoryGroup, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetGroupByName(ctx, userID, dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to create category group", err)
	}
	if existing != nil {
		return nil, ErrGroupExists
	}

	dm := &categoryDatamodel.CategoryGroup{UserID: userID, Name: dto.Name}
	if err := s.repo.CreateGroup(ctx, dm); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrGroupExists
		}
		s.logger.Error("failed to create category group", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to create category group", err)
	}
	return GroupFromDataModel(dm), nil
}

func (s *Service) ListGroups(ctx context.Context, userID string) ([]*CategoryGroup, error) {
	rows, err := s.repo.ListGroups(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list category groups", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to list category groups", err)
	}
	out := make([]*CategoryGroup, 0, len(rows))
	for _, row := range rows {
		out = append(out, GroupFromDataModel(row))
	}
	return out, nil
}

func (s *Service) DeleteGroup(ctx context.Context, userID, id string) error {
	dm, err := s.repo.GetGroupByID(ctx, userID, id)
	if err != nil {
		return internal.NewInternalError("failed to load category group", err)
	}
	if dm == nil {
		return ErrGroupNotFound
	}

	n, err := s.repo.CountCategoriesByGroup(ctx, userID, id)
	if err != nil {
		return internal.NewInternalError("failed to delete category group", err)
	}
	if n > 0 {
		return ErrGroupInUse
	}

	if err := s.repo.DeleteGroup(ctx, userID, id); err != nil {
		s.logger.Error("failed to delete category group", "group_id", id, "error", err)
		return internal.NewInternalError("failed to delete category group", err)
	}
	return nil
}

// ----------------- CATEGORIES -----------------

func (s *Service) Create(ctx context.Context, userID string, dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	group, err := s.repo.GetGroupByID(ctx, userID, dto.CategoriesGroupID)
	if err != nil {
		return nil, internal.NewInternalError("failed to create category", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	typ, err := s.repo.GetTypeByID(ctx, userID, dto.CategoriesTypeID)
	if err != nil {
		return nil, internal.NewInternalError("failed to create category", err)
	}
	if typ == nil {
		return nil, ErrTypeNotFound
	}

	existing, err := s.repo.GetByName(ctx, userID, dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to create category", err)
	}
	if existing != nil {
		return nil, ErrCategoryExists
	}

	dm := ToDataModel(&Category{
		UserID:            userID,
		CategoriesGroupID: group.ID,
		CategoriesTypeID:  typ.ID,
		Name:              dto.Name,
	})
	if err := s.repo.Create(ctx, dm); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		s.logger.Error("failed to create category", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to create category", err)
	}

	dm.CategoriesGroup = group
	dm.CategoriesType = typ
	s.logger.Info("category created", "user_id", userID, "category_id", dm.ID)
	return FromDataModel(dm), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*Category, error) {
	rows, err := s.repo.List(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list categories", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to list categories", err)
	}
	out := make([]*Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*Category, error) {
	dm, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load category", err)
	}
	if dm == nil {
		return nil, ErrCategoryNotFound
	}
	return FromDataModel(dm), nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	n, err := s.repo.CountTransactions(ctx, userID, id)
	if err != nil {
		return internal.NewInternalError("failed to delete category", err)
	}
	if n > 0 {
		return ErrCategoryInUse
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		s.logger.Error("failed to delete category", "category_id", id, "error", err)
		return internal.NewInternalError("failed to delete category", err)
	}
	return nil
}

// ----------------- IMPORT -----------------

// ImportCSV creates the type, group and category named on each row, reusing any that
// already exist. Existing categories count as skipped.
func (s *Service) ImportCSV(ctx context.Context, userID string, r io.Reader, maxErrorDetails int) (*ImportResult, error) {
	rows, report, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	types := make(map[string]*categoryDatamodel.CategoryType)
	groups := make(map[string]*categoryDatamodel.CategoryGroup)

	err = s.repo.RunInTx(ctx, func(repo RepositoryAPI) error {
		for _, row := range rows {
			typ, err := getOrCreateType(ctx, repo, types, userID, row.Type)
			if err != nil {
				return err
			}
			group, err := getOrCreateGroup(ctx, repo, groups, userID, row.Group)
			if err != nil {
				return err
			}

			existing, err := repo.GetByName(ctx, userID, row.Name)
			if err != nil {
				return err
			}
			if existing != nil {
				result.CategoriesSkipped++
				continue
			}

			dm := &categoryDatamodel.Category{
				UserID:            userID,
				CategoriesGroupID: group.ID,
				CategoriesTypeID:  typ.ID,
				Name:              row.Name,
			}
			if err := repo.Create(ctx, dm); err != nil {
				return err
			}
			result.CategoriesCreated++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("category import failed", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to import categories", err)
	}

	result.TypesProcessed = len(types)
	result.GroupsProcessed = len(groups)
	result.Errors = report.Len()
	result.ErrorDetails = report.Details(maxErrorDetails)
	if result.Failed() {
		result.Message = "No categories were imported"
	} else {
		result.Message = "Categories imported successfully"
	}

	s.logger.Info("categories imported",
		"user_id", userID,
		"created", result.CategoriesCreated,
		"skipped", result.CategoriesSkipped,
		"errors", result.Errors)

	if s.publisher != nil && result.CategoriesCreated > 0 {
		if err := s.publisher.Publish(ctx, events.NewCategoriesImportedEvent(userID, result.CategoriesCreated)); err != nil {
			s.logger.Warn("failed to publish categories imported event", "error", err)
		}
	}
	return result, nil
}

func getOrCreateType(ctx context.Context, repo RepositoryAPI, cache map[string]*categoryDatamodel.CategoryType, userID, name string) (*categoryDatamodel.CategoryType, error) {
	if t, ok := cache[name]; ok {
		return t, nil
	}
	t, err := repo.GetTypeByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if t == nil {
		t = &categoryDatamodel.CategoryType{UserID: userID, Name: name}
		if err := repo.CreateType(ctx, t); err != nil {
			return nil, err
		}
	}
	cache[name] = t
	return t, nil
}

func getOrCreateGroup(ctx context.Context, repo RepositoryAPI, cache map[string]*categoryDatamodel.CategoryGroup, userID, name string) (*categoryDatamodel.CategoryGroup, error) {
	if g, ok := cache[name]; ok {
		return g, nil
	}
	g, err := repo.GetGroupByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if g == nil {
		g = &categoryDatamodel.CategoryGroup{UserID: userID, Name: name}
		if err := repo.CreateGroup(ctx, g); err != nil {
			return nil, err
		}
	}
	cache[name] = g
	return g, nil
}
