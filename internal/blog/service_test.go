package blog

import (
	"context"
	"testing"
	"time"

	"github.com/salonora/salonora-backend/pkg/db"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
)

func newBlogValidationService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DB:  &db.Client{},
		Now: func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateAuthorRequiresName(t *testing.T) {
	svc := newBlogValidationService(t)

	_, err := svc.CreateAuthor(context.Background(), CreateAuthorInput{Name: "  "})
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestCreatePostRequiresAuthorAndCategory(t *testing.T) {
	svc := newBlogValidationService(t)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{Title: "Spring hair trends"})
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestGetPublishedBySlugRequiresSlug(t *testing.T) {
	svc := newBlogValidationService(t)

	_, err := svc.GetPublishedBySlug(context.Background(), " ")
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}
