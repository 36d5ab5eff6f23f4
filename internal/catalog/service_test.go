package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/pagination"
)

func TestCatalogCreateSuccess(t *testing.T) {
	repo := &stubCatalogRepo{}
	svc, err := NewService(repo, stubChecker{allowed: true})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	salonID := uuid.New()
	dto, err := svc.Create(context.Background(), uuid.New(), salonID, CreateServiceInput{
		Name:            "  Balayage ",
		Price:           decimal.NewFromInt(80),
		DurationMinutes: 90,
	})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	if dto.Name != "Balayage" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if dto.SalonID != salonID {
		t.Fatalf("expected salon id %s got %s", salonID, dto.SalonID)
	}
	if !dto.IsActive || !dto.IsAppBookable {
		t.Fatalf("expected active bookable defaults, got %+v", dto)
	}
}

func TestCatalogCreateRejectsZeroDuration(t *testing.T) {
	svc, err := NewService(&stubCatalogRepo{}, stubChecker{allowed: true})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateServiceInput{
		Name:  "Cut",
		Price: decimal.NewFromInt(20),
	})
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", gotErr)
	}
}

func TestCatalogCreateForbidden(t *testing.T) {
	svc, err := NewService(&stubCatalogRepo{}, stubChecker{allowed: false})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateServiceInput{
		Name:            "Cut",
		Price:           decimal.NewFromInt(20),
		DurationMinutes: 30,
	})
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden code, got %v", gotErr)
	}
}

func TestCatalogUpdateCrossSalonRejected(t *testing.T) {
	existing := &models.SalonService{
		ID:              uuid.New(),
		SalonID:         uuid.New(),
		Name:            "Cut",
		Price:           decimal.NewFromInt(20),
		DurationMinutes: 30,
		IsActive:        true,
	}
	svc, err := NewService(&stubCatalogRepo{found: existing}, stubChecker{allowed: true})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Update(context.Background(), uuid.New(), uuid.New(), existing.ID, UpdateServiceInput{})
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden code, got %v", gotErr)
	}
}

func TestCatalogDeactivateNotFound(t *testing.T) {
	svc, err := NewService(&stubCatalogRepo{deactivateErr: gorm.ErrRecordNotFound}, stubChecker{allowed: true})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	gotErr := svc.Deactivate(context.Background(), uuid.New(), uuid.New(), uuid.New())
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", gotErr)
	}
}

type stubCatalogRepo struct {
	found         *models.SalonService
	deactivateErr error
}

func (s *stubCatalogRepo) Create(ctx context.Context, svc *models.SalonService) error {
	svc.ID = uuid.New()
	return nil
}

func (s *stubCatalogRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.SalonService, error) {
	if s.found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.found, nil
}

func (s *stubCatalogRepo) List(ctx context.Context, params ListParams) ([]models.SalonService, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (s *stubCatalogRepo) Update(ctx context.Context, svc *models.SalonService) error {
	return nil
}

func (s *stubCatalogRepo) Deactivate(ctx context.Context, salonID, serviceID uuid.UUID) error {
	return s.deactivateErr
}

type stubChecker struct {
	allowed bool
	err     error
}

func (s stubChecker) UserHasRole(ctx context.Context, userID, salonID uuid.UUID, roles ...enums.MemberRole) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.allowed, nil
}
