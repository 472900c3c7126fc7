package space

import (
	"github.com/frahmantamala/workspace-booking/internal/core/common/validation"
)

type CreateCoworkingDTO struct {
	Name string `json:"name"`
}

func (d CreateCoworkingDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	return v.Validate()
}

type CreateFloorDTO struct {
	Name        string `json:"name"`
	CoworkingID string `json:"coworking_id,omitempty"`
}

func (d CreateFloorDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	return v.Validate()
}

// RenameDTO renames a coworking or a floor.
type RenameDTO struct {
	Name string `json:"name"`
}

func (d RenameDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	return v.Validate()
}

type CreateSpaceDTO struct {
	Label string `json:"label"`
	Seats int    `json:"seats"`
}

func (d CreateSpaceDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("label", d.Label).Required().MaxLength(100)
	v.Field("seats", d.Seats).MinInt(1)
	return v.Validate()
}
