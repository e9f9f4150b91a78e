package institution

import (
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	institutionDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/institution"
)

type Institution struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	ErrInstitutionNotFound = internal.NewNotFoundError("Institution not found", internal.ErrCodeInstitutionNotFound)
	ErrInstitutionInUse    = internal.NewConflictError("Institution still has accounts", internal.ErrCodeResourceInUse)
)

func ToDataModel(i *Institution) *institutionDatamodel.Institution {
	dm := &institutionDatamodel.Institution{
		UserID:      i.UserID,
		Name:        i.Name,
		Location:    i.Location,
		Description: i.Description,
	}
	dm.ID = i.ID
	dm.CreatedAt = i.CreatedAt
	dm.UpdatedAt = i.UpdatedAt
	return dm
}

func FromDataModel(dm *institutionDatamodel.Institution) *Institution {
	if dm == nil {
		return nil
	}
	return &Institution{
		ID:          dm.ID,
		UserID:      dm.UserID,
		Name:        dm.Name,
		Location:    dm.Location,
		Description: dm.Description,
		CreatedAt:   dm.CreatedAt,
		UpdatedAt:   dm.UpdatedAt,
	}
}
