package service

import (
	"context"

	"github.com/HovVathana/shoppink-backend/internal/models"

	"github.com/google/uuid"
)

type GroupInput struct {
	Name          string
	SelectionType models.SelectionType
	ParentGroupID *uuid.UUID
	IsParent      bool
	SortOrder     int32
}

type GroupPatch struct {
	Name          *string
	SelectionType *models.SelectionType
	ParentGroupID *uuid.UUID
	IsParent      *bool
	SortOrder     *int32
}

type OptionInput struct {
	Name        string
	PriceType   models.PriceType
	PriceValue  *int64
	IsDefault   bool
	IsAvailable bool
	Stock       int32
	SortOrder   int32
}

type OptionPatch struct {
	Name        *string
	PriceType   *models.PriceType
	PriceValue  *int64
	IsDefault   *bool
	IsAvailable *bool
	Stock       *int32
	SortOrder   *int32
}

// GroupCascadeResult — итог каскадного удаления группы
type GroupCascadeResult struct {
	GroupsDeleted   int64 `json:"groups_deleted"`
	OptionsDeleted  int64 `json:"options_deleted"`
	VariantsDeleted int64 `json:"variants_deleted"`
}

type OptionCascadeResult struct {
	VariantsDeleted int64 `json:"variants_deleted"`
}

type CatalogService interface {
	CreateGroup(ctx context.Context, productID uuid.UUID, in GroupInput) (*models.OptionGroup, error)
	UpdateGroup(ctx context.Context, groupID uuid.UUID, patch GroupPatch) (*models.OptionGroup, error)
	ListGroups(ctx context.Context, productID uuid.UUID) ([]models.OptionGroup, error)
	DeleteGroup(ctx context.Context, groupID uuid.UUID) (*GroupCascadeResult, error)

	CreateOption(ctx context.Context, groupID uuid.UUID, in OptionInput) (*models.Option, error)
	UpdateOption(ctx context.Context, optionID uuid.UUID, patch OptionPatch) (*models.Option, error)
	DeleteOption(ctx context.Context, optionID uuid.UUID) (*OptionCascadeResult, error)
}
