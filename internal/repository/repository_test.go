package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fawkesdbs/roadguard/internal/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.Profile{}, &domain.Vehicle{}, &domain.Trip{},
		&domain.Alert{}, &domain.Achievement{}, &domain.UserAchievement{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestProfileRepositoryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	profile := &domain.Profile{
		ID:           "uid-1",
		Email:        "driver@example.com",
		Name:         "Thabo",
		Surname:      "Nkosi",
		PhoneNumber:  "+27831234567",
		PasswordHash: "$2a$10$hash",
	}
	if err := repo.Create(ctx, profile); err != nil {
		t.Fatalf("create: %v", err)
	}

	byID, err := repo.FindByID(ctx, "uid-1")
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if byID.Email != "driver@example.com" || byID.Surname != "Nkosi" {
		t.Fatalf("unexpected profile %+v", byID)
	}

	byEmail, err := repo.FindByEmail(ctx, "driver@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail.ID != "uid-1" {
		t.Fatalf("unexpected id %s", byEmail.ID)
	}
}

func TestProfileRepositoryNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)

	_, err := repo.FindByID(context.Background(), "missing")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestProfileRepositoryDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	first := &domain.Profile{ID: "uid-1", Email: "dupe@example.com", Name: "A", Surname: "B", PhoneNumber: "1", PasswordHash: "h"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	second := &domain.Profile{ID: "uid-2", Email: "dupe@example.com", Name: "C", Surname: "D", PhoneNumber: "2", PasswordHash: "h"}
	if err := repo.Create(ctx, second); err == nil {
		t.Fatal("expected unique constraint violation")
	}
}

func TestFleetRepositoryQueries(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	profile := &domain.Profile{ID: "uid-1", Email: "d@example.com", Name: "A", Surname: "B", PhoneNumber: "1", PasswordHash: "h"}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	vehicle := &domain.Vehicle{UserID: "uid-1", Brand: "Toyota", Model: "Hilux", NumberPlate: "ND 1234", Year: 2020,
		Vulnerabilities: domain.VehicleVulnerabilities{HailSensitive: true}}
	if err := db.Create(vehicle).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		trip := &domain.Trip{UserID: "uid-1", VehicleID: vehicle.ID, TravelRiskScore: i + 1,
			StartTime: base.Add(time.Duration(i) * time.Hour), EndTime: base.Add(time.Duration(i+1) * time.Hour)}
		if err := db.Create(trip).Error; err != nil {
			t.Fatalf("seed trip: %v", err)
		}
		if i == 0 {
			alert := &domain.Alert{UserID: "uid-1", TripID: trip.ID, Type: "weather", Status: "sent",
				Content: domain.AlertContent{Hazard: "Heavy Rain", Severity: "high", Advice: "Drive slowly"}}
			if err := db.Create(alert).Error; err != nil {
				t.Fatalf("seed alert: %v", err)
			}
		}
	}
	ach := &domain.Achievement{Name: "Storm Dodger", Description: "Avoided a severe weather zone.", IconURL: "/icons/storm.svg"}
	if err := db.Create(ach).Error; err != nil {
		t.Fatalf("seed achievement: %v", err)
	}
	if err := db.Create(&domain.UserAchievement{UserID: "uid-1", AchievementID: ach.ID, EarnedAt: base}).Error; err != nil {
		t.Fatalf("seed user achievement: %v", err)
	}

	repo := NewFleetRepository(db)

	vehicles, err := repo.VehiclesByUser(ctx, "uid-1")
	if err != nil || len(vehicles) != 1 {
		t.Fatalf("vehicles: %v (%d)", err, len(vehicles))
	}
	if !vehicles[0].Vulnerabilities.HailSensitive {
		t.Fatal("expected vulnerabilities to round-trip through JSON serializer")
	}

	trips, err := repo.RecentTripsByUser(ctx, "uid-1", 2)
	if err != nil || len(trips) != 2 {
		t.Fatalf("trips: %v (%d)", err, len(trips))
	}
	if !trips[0].StartTime.After(trips[1].StartTime) {
		t.Fatal("expected trips ordered most recent first")
	}

	alerts, err := repo.AlertsByUser(ctx, "uid-1", 10)
	if err != nil || len(alerts) != 1 {
		t.Fatalf("alerts: %v (%d)", err, len(alerts))
	}
	if alerts[0].Content.Hazard != "Heavy Rain" {
		t.Fatalf("unexpected alert content %+v", alerts[0].Content)
	}

	achievements, err := repo.AchievementsByUser(ctx, "uid-1")
	if err != nil || len(achievements) != 1 {
		t.Fatalf("achievements: %v (%d)", err, len(achievements))
	}
	if achievements[0].Name != "Storm Dodger" {
		t.Fatalf("unexpected achievement %+v", achievements[0])
	}

	none, err := repo.VehiclesByUser(ctx, "uid-2")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty result for unknown user, got %v (%d)", err, len(none))
	}
}
