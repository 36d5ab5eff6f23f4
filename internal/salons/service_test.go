package salons

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/internal/memberships"
	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/pagination"
)

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil, &stubMembershipsRepo{})
	if err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestNewServiceRequiresMembershipRepo(t *testing.T) {
	repo := &stubSalonRepo{}
	_, err := NewService(repo, nil)
	if err == nil {
		t.Fatal("expected error creating service without memberships repo")
	}
}

func TestServiceGetByIDSuccess(t *testing.T) {
	salon := baseSalon()
	repo := &stubSalonRepo{salon: salon}
	svc, err := NewService(repo, &stubMembershipsRepo{allowed: true})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.GetByID(context.Background(), salon.ID)
	if err != nil {
		t.Fatalf("get salon: %v", err)
	}
	if dto.ID != salon.ID {
		t.Fatalf("expected id %s got %s", salon.ID, dto.ID)
	}
	if dto.Name != salon.Name {
		t.Fatalf("expected name %s got %s", salon.Name, dto.Name)
	}
	if dto.City != salon.City {
		t.Fatalf("expected city %s got %s", salon.City, dto.City)
	}
}

func TestServiceGetByIDNotFound(t *testing.T) {
	repo := &stubSalonRepo{err: gorm.ErrRecordNotFound}
	svc, err := NewService(repo, &stubMembershipsRepo{allowed: true})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.GetByID(context.Background(), uuid.New())
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", gotErr)
	}
}

func TestServiceGetByIDDependencyError(t *testing.T) {
	repo := &stubSalonRepo{err: errors.New("boom")}
	svc, err := NewService(repo, &stubMembershipsRepo{allowed: true})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.GetByID(context.Background(), uuid.New())
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", gotErr)
	}
}

func TestServiceUpdateSuccess(t *testing.T) {
	salon := baseSalon()
	repo := &stubSalonRepo{salon: salon}
	svc, err := NewService(repo, &stubMembershipsRepo{allowed: true})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	newDescription := "full-service studio"
	newLogo := "http://logo"
	input := UpdateSalonInput{
		Name:        stringPtr("Updated Salon"),
		Description: &newDescription,
		LogoURL:     &newLogo,
	}

	dto, err := svc.Update(context.Background(), uuid.New(), salon.ID, input)
	if err != nil {
		t.Fatalf("update salon: %v", err)
	}
	if dto.Name != "Updated Salon" {
		t.Fatalf("expected name updated, got %s", dto.Name)
	}
	if dto.Description == nil || *dto.Description != newDescription {
		t.Fatalf("expected description %q got %v", newDescription, dto.Description)
	}
	if repo.updated == nil {
		t.Fatal("expected update to hit repository")
	}
}

func TestServiceUpdateForbidden(t *testing.T) {
	repo := &stubSalonRepo{salon: baseSalon()}
	svc, err := NewService(repo, &stubMembershipsRepo{allowed: false})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateSalonInput{})
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden code, got %v", gotErr)
	}
}

func TestServiceRemoveStaffLastOwner(t *testing.T) {
	salonID := uuid.New()
	target := uuid.New()
	membershipsRepo := &stubMembershipsRepo{
		allowed: true,
		membership: &models.SalonMembership{
			ID:      uuid.New(),
			SalonID: salonID,
			UserID:  target,
			Role:    enums.MemberRoleOwner,
			Status:  enums.MembershipStatusActive,
		},
		ownerCount: 1,
	}
	svc, err := NewService(&stubSalonRepo{salon: baseSalon()}, membershipsRepo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	gotErr := svc.RemoveStaff(context.Background(), uuid.New(), salonID, target)
	if gotErr == nil {
		t.Fatal("expected error removing last owner")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", gotErr)
	}
	if membershipsRepo.removed {
		t.Fatal("expected removal to be blocked")
	}
}

func TestServiceRemoveStaffWithRemainingOwner(t *testing.T) {
	salonID := uuid.New()
	target := uuid.New()
	membershipsRepo := &stubMembershipsRepo{
		allowed: true,
		membership: &models.SalonMembership{
			ID:      uuid.New(),
			SalonID: salonID,
			UserID:  target,
			Role:    enums.MemberRoleOwner,
			Status:  enums.MembershipStatusActive,
		},
		ownerCount: 2,
	}
	svc, err := NewService(&stubSalonRepo{salon: baseSalon()}, membershipsRepo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if err := svc.RemoveStaff(context.Background(), uuid.New(), salonID, target); err != nil {
		t.Fatalf("remove staff: %v", err)
	}
	if !membershipsRepo.removed {
		t.Fatal("expected membership to be removed")
	}
}

func TestServiceUpdateStaffRoleDemoteLastOwner(t *testing.T) {
	salonID := uuid.New()
	target := uuid.New()
	membershipsRepo := &stubMembershipsRepo{
		allowed: true,
		membership: &models.SalonMembership{
			ID:      uuid.New(),
			SalonID: salonID,
			UserID:  target,
			Role:    enums.MemberRoleOwner,
			Status:  enums.MembershipStatusActive,
		},
		ownerCount: 1,
	}
	svc, err := NewService(&stubSalonRepo{salon: baseSalon()}, membershipsRepo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	gotErr := svc.UpdateStaffRole(context.Background(), uuid.New(), salonID, target, enums.MemberRoleEmployee)
	if gotErr == nil {
		t.Fatal("expected error demoting last owner")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", gotErr)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Bella's Hair & Beauty": "bella-s-hair-beauty",
		"  Studio   54  ":       "studio-54",
		"ÉLAN Salon":            "élan-salon",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func baseSalon() *models.Salon {
	return &models.Salon{
		ID:          uuid.New(),
		Name:        "Test Salon",
		Slug:        "test-salon",
		AddressLine: "123 Main St",
		City:        "Madrid",
		IsActive:    true,
		OwnerID:     uuid.New(),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Phone:       stringPtr("600-555-000"),
		Email:       stringPtr("owner@example.com"),
		Description: stringPtr("flagship salon"),
	}
}

type stubSalonRepo struct {
	salon     *models.Salon
	err       error
	updateErr error
	updated   *models.Salon
}

func (s *stubSalonRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Salon, error) {
	return s.salon, s.err
}

func (s *stubSalonRepo) FindBySlug(ctx context.Context, slug string) (*models.Salon, error) {
	return s.salon, s.err
}

func (s *stubSalonRepo) Search(ctx context.Context, params SearchParams) ([]models.Salon, *pagination.Cursor, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	if s.salon == nil {
		return nil, nil, nil
	}
	return []models.Salon{*s.salon}, nil, nil
}

func (s *stubSalonRepo) Update(ctx context.Context, salon *models.Salon) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = salon
	return nil
}

type stubMembershipsRepo struct {
	allowed    bool
	err        error
	membership *models.SalonMembership
	ownerCount int64
	removed    bool
	roleSet    *enums.MemberRole
}

func (s *stubMembershipsRepo) UserHasRole(ctx context.Context, userID, salonID uuid.UUID, roles ...enums.MemberRole) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.allowed, nil
}

func (s *stubMembershipsRepo) ListSalonStaff(ctx context.Context, salonID uuid.UUID) ([]memberships.SalonStaffDTO, error) {
	return nil, s.err
}

func (s *stubMembershipsRepo) GetMembership(ctx context.Context, userID, salonID uuid.UUID) (*models.SalonMembership, error) {
	if s.membership == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.membership, nil
}

func (s *stubMembershipsRepo) UpdateRole(ctx context.Context, membershipID uuid.UUID, role enums.MemberRole) error {
	s.roleSet = &role
	return nil
}

func (s *stubMembershipsRepo) MarkRemoved(ctx context.Context, membershipID uuid.UUID) error {
	s.removed = true
	return nil
}

func (s *stubMembershipsRepo) CountActiveOwners(ctx context.Context, salonID uuid.UUID) (int64, error) {
	return s.ownerCount, nil
}

func stringPtr(s string) *string { return &s }
