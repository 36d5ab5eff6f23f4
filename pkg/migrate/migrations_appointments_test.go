package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAppointmentsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_appointments.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no appointments migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS appointments",
		"FOREIGN KEY (salon_id) REFERENCES salons(id) ON DELETE CASCADE",
		"FOREIGN KEY (service_id) REFERENCES salon_services(id)",
		"CHECK (duration_minutes > 0)",
		"CHECK (customer_user_id IS NOT NULL OR customer_name IS NOT NULL)",
		"CREATE INDEX IF NOT EXISTS idx_appointments_salon_start",
		"DROP TABLE IF EXISTS appointments",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
