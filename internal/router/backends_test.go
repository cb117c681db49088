package router

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"medicine-reminder/internal/adapters/auth/jwtauth"
	"medicine-reminder/internal/config"
	"medicine-reminder/internal/domain/medicines"
)

func baseConfig() *config.Config {
	return &config.Config{
		App:    "medicine-reminder",
		Server: config.Server{Port: "8080"},
		DB:     config.DB{Driver: config.DriverMemory},
		Auth:   config.Auth{Mode: config.AuthDev},
		DrugInfo: config.DrugInfo{
			OpenFDAURL: "http://127.0.0.1:1",
			Timeout:    time.Second,
		},
		Reminder: config.Reminder{Interval: time.Minute, Timezone: "UTC"},
	}
}

func TestBuild_MemoryDevMode(t *testing.T) {
	b, err := Build(context.Background(), baseConfig(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer b.Close()

	if b.Options.AuthVerifier != nil {
		t.Fatalf("dev mode must not verify tokens")
	}
	if b.Options.Accounts == nil || b.Options.Medicines == nil || b.Options.DrugInfo == nil {
		t.Fatalf("missing backends: %#v", b.Options)
	}
	if b.Options.Publisher != nil {
		t.Fatalf("publisher must be off without AMQP_URL")
	}
	if b.Options.Location.String() != "UTC" || b.Options.ReminderInterval != time.Minute {
		t.Fatalf("unexpected reminder options %v %v", b.Options.Location, b.Options.ReminderInterval)
	}
}

func TestBuild_LocalAuthUsesJWT(t *testing.T) {
	cfg := baseConfig()
	cfg.Auth = config.Auth{Mode: config.AuthLocal, JWTSecret: "s3cret", TokenTTL: time.Hour}

	b, err := Build(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer b.Close()

	if _, ok := b.Options.AuthVerifier.(*jwtauth.Manager); !ok {
		t.Fatalf("expected jwt verifier, got %T", b.Options.AuthVerifier)
	}
}

func TestBuild_SQLiteMigratesAndPersists(t *testing.T) {
	cfg := baseConfig()
	cfg.DB = config.DB{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "reminders.db")}

	b, err := Build(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer b.Close()

	svc := medicines.NewService(b.Options.Medicines)
	m, err := svc.Create(context.Background(), "u-1", medicines.CreateInput{
		Name: "Aspirin", Dosage: "100mg", ScheduleTimes: []string{"08:00"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := svc.ListByOwner(context.Background(), "u-1")
	if err != nil || len(list) != 1 || list[0].ID != m.ID {
		t.Fatalf("unexpected list %#v %v", list, err)
	}
}
