package institution

import (
	"strings"

	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
)

type CreateInstitutionDTO struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

func (d *CreateInstitutionDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)

	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("location", d.Location).MaxLength(255)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// UpdateInstitutionDTO only touches fields that are present.
type UpdateInstitutionDTO struct {
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

func (d *UpdateInstitutionDTO) Validate() error {
	v := validation.NewValidator()
	if d.Name != nil {
		trimmed := strings.TrimSpace(*d.Name)
		d.Name = &trimmed
		v.Field("name", trimmed).Required().MaxLength(255)
	}
	if d.Location != nil {
		v.Field("location", *d.Location).MaxLength(255)
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type InstitutionsResponse struct {
	Institutions []*Institution `json:"institutions"`
}
