package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("zero limit: got %d", got)
	}
	if got := NormalizeLimit(1000); got != MaxLimit {
		t.Fatalf("oversized limit: got %d", got)
	}
	if got := NormalizeLimit(7); got != 7 {
		t.Fatalf("in-range limit: got %d", got)
	}
	if got := LimitWithBuffer(7); got != 8 {
		t.Fatalf("buffer: got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{CreatedAt: time.Now().UTC(), ID: uuid.New()}
	out, err := ParseCursor(EncodeCursor(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out == nil || !out.CreatedAt.Equal(in.CreatedAt) || out.ID != in.ID {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestParseCursorEmptyMeansFirstPage(t *testing.T) {
	cursor, err := ParseCursor("  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cursor != nil {
		t.Fatalf("expected nil cursor, got %+v", cursor)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	if _, err := ParseCursor("%%%not-base64%%%"); err == nil {
		t.Fatal("expected error for invalid encoding")
	}
}
