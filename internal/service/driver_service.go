package service

import (
	"context"
	"strings"
	"time"

	"github.com/HovVathana/shoppink-backend/internal/models"
	"github.com/HovVathana/shoppink-backend/internal/repository"

	"github.com/google/uuid"
)

type DriverInput struct {
	Name     string
	Phone    string
	IsActive *bool
}

type DriverPatch struct {
	Name     *string
	Phone    *string
	IsActive *bool
}

type DriverService interface {
	CreateDriver(ctx context.Context, in DriverInput) (*models.Driver, error)
	UpdateDriver(ctx context.Context, id uuid.UUID, patch DriverPatch) (*models.Driver, error)
	GetDriver(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	ListDrivers(ctx context.Context, onlyActive *bool) ([]models.Driver, error)
}

type driverService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewDriverService(repo *repository.Repository) DriverService {
	return &driverService{repo: repo, now: time.Now}
}

func (s *driverService) CreateDriver(ctx context.Context, in DriverInput) (*models.Driver, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	d := &models.Driver{
		Name:     name,
		Phone:    strings.TrimSpace(in.Phone),
		IsActive: active,
	}
	if err := s.repo.Drivers.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *driverService) UpdateDriver(ctx context.Context, id uuid.UUID, patch DriverPatch) (*models.Driver, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	d, err := s.repo.Drivers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDriverNotFound
	}

	fields := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		fields["name"] = name
	}
	if patch.Phone != nil {
		fields["phone"] = strings.TrimSpace(*patch.Phone)
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}

	if len(fields) > 0 {
		fields["updated_at"] = s.now()
		if err := s.repo.Drivers.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.repo.Drivers.GetByID(ctx, id)
}

func (s *driverService) GetDriver(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	if _, _, err := requireAuth(ctx); err != nil {
		return nil, err
	}
	d, err := s.repo.Drivers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDriverNotFound
	}
	return d, nil
}

func (s *driverService) ListDrivers(ctx context.Context, onlyActive *bool) ([]models.Driver, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.repo.Drivers.List(ctx, onlyActive)
}
