package database

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/fawkesdbs/roadguard/internal/domain"
	"github.com/fawkesdbs/roadguard/internal/observability"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// seedPassword is the shared login password for all demo accounts.
const seedPassword = "password123"

var seedAchievements = []domain.Achievement{
	{Name: "Storm Dodger", Description: "Successfully avoided a severe weather zone.", IconURL: "/icons/storm.svg"},
	{Name: "Safe Detour", Description: "Took a suggested safer route.", IconURL: "/icons/detour.svg"},
	{Name: "Night Owl", Description: "Completed 10 trips at night.", IconURL: "/icons/night.svg"},
	{Name: "Road Warrior", Description: "Completed 50 trips.", IconURL: "/icons/warrior.svg"},
}

var (
	seedFirstNames = []string{"Thabo", "Lerato", "Sipho", "Annelie", "Kagiso", "Pieter", "Naledi", "Johan", "Zanele", "Ayanda"}
	seedSurnames   = []string{"Nkosi", "van der Merwe", "Dlamini", "Botha", "Mokoena", "Khumalo", "Pretorius", "Mahlangu", "Ndlovu", "Venter"}
	seedLanguages  = []string{"en", "zu", "af"}
	seedBrands     = []string{"Toyota", "Volkswagen", "Ford", "Hyundai", "Nissan", "Isuzu"}
	seedModels     = []string{"Hilux", "Polo", "Ranger", "i20", "NP200", "D-Max"}
	alertTypes     = []string{"weather", "crime", "traffic"}
	alertStatuses  = []string{"sent", "acknowledged", "dismissed"}
)

type SeedReport struct {
	Achievements     int `json:"achievements"`
	Users            int `json:"users"`
	Vehicles         int `json:"vehicles"`
	Trips            int `json:"trips"`
	Alerts           int `json:"alerts"`
	UserAchievements int `json:"user_achievements"`
}

// Seed resets the demo dataset and repopulates it. The rng is injected so
// tooling can pin a seed for reproducible datasets.
func Seed(ctx context.Context, db *gorm.DB, rng *rand.Rand) (*SeedReport, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	report := &SeedReport{}

	for _, table := range []any{&domain.UserAchievement{}, &domain.Alert{}, &domain.Trip{}, &domain.Vehicle{}, &domain.Profile{}, &domain.Achievement{}} {
		if err := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			observability.RecordSeedEvent(ctx, "reset", "error")
			return nil, fmt.Errorf("clear table %T: %w", table, err)
		}
	}

	achievements := make([]domain.Achievement, len(seedAchievements))
	copy(achievements, seedAchievements)
	if err := db.WithContext(ctx).Create(&achievements).Error; err != nil {
		observability.RecordSeedEvent(ctx, "achievements", "error")
		return nil, fmt.Errorf("seed achievements: %w", err)
	}
	report.Achievements = len(achievements)
	observability.RecordSeedEvent(ctx, "achievements", "success")

	// The hash is expensive, so it is computed once and shared.
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), 10)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]domain.Profile, 0, 10)
	for i := 0; i < 10; i++ {
		first := seedFirstNames[rng.Intn(len(seedFirstNames))]
		last := seedSurnames[rng.Intn(len(seedSurnames))]
		users = append(users, domain.Profile{
			ID:                 uuid.NewString(),
			Email:              fmt.Sprintf("%s.%s.%d@example.com", slug(first), slug(last), i),
			Name:               first,
			Surname:            last,
			PhoneNumber:        fmt.Sprintf("+2783%07d", rng.Intn(10000000)),
			PasswordHash:       string(hash),
			LanguagePreference: seedLanguages[rng.Intn(len(seedLanguages))],
			Points:             rng.Intn(1001),
			Level:              1 + rng.Intn(10),
		})
	}
	if err := db.WithContext(ctx).Create(&users).Error; err != nil {
		observability.RecordSeedEvent(ctx, "users", "error")
		return nil, fmt.Errorf("seed users: %w", err)
	}
	report.Users = len(users)
	observability.RecordSeedEvent(ctx, "users", "success")

	vehicles := make([]domain.Vehicle, 0, len(users))
	for _, u := range users {
		vehicles = append(vehicles, domain.Vehicle{
			UserID:          u.ID,
			Brand:           seedBrands[rng.Intn(len(seedBrands))],
			Model:           seedModels[rng.Intn(len(seedModels))],
			NumberPlate:     fmt.Sprintf("%c%c %c%c %d GP", 'A'+rng.Intn(26), 'A'+rng.Intn(26), 'A'+rng.Intn(26), 'A'+rng.Intn(26), 100+rng.Intn(900)),
			Year:            2010 + rng.Intn(15),
			Vulnerabilities: domain.VehicleVulnerabilities{HailSensitive: rng.Intn(2) == 0},
		})
	}
	if err := db.WithContext(ctx).Create(&vehicles).Error; err != nil {
		observability.RecordSeedEvent(ctx, "vehicles", "error")
		return nil, fmt.Errorf("seed vehicles: %w", err)
	}
	report.Vehicles = len(vehicles)
	observability.RecordSeedEvent(ctx, "vehicles", "success")

	now := time.Now()
	for _, u := range users {
		for i := 0; i < 5; i++ {
			start := now.Add(-time.Duration(1+rng.Intn(30*24)) * time.Hour)
			trip := domain.Trip{
				UserID:          u.ID,
				VehicleID:       vehicles[rng.Intn(len(vehicles))].ID,
				TravelRiskScore: 1 + rng.Intn(10),
				StartTime:       start,
				EndTime:         start.Add(time.Duration(10+rng.Intn(170)) * time.Minute),
			}
			if err := db.WithContext(ctx).Create(&trip).Error; err != nil {
				observability.RecordSeedEvent(ctx, "trips", "error")
				return nil, fmt.Errorf("seed trip: %w", err)
			}
			report.Trips++

			if rng.Intn(2) == 0 {
				if err := createAlert(ctx, db, rng, u.ID, trip.ID); err != nil {
					observability.RecordSeedEvent(ctx, "alerts", "error")
					return nil, err
				}
				report.Alerts++
			}
		}
	}
	observability.RecordSeedEvent(ctx, "trips", "success")
	observability.RecordSeedEvent(ctx, "alerts", "success")

	for _, u := range users {
		if rng.Float64() > 0.3 {
			ua := domain.UserAchievement{
				UserID:        u.ID,
				AchievementID: achievements[rng.Intn(len(achievements))].ID,
				EarnedAt:      now,
			}
			if err := db.WithContext(ctx).Create(&ua).Error; err != nil {
				observability.RecordSeedEvent(ctx, "user_achievements", "error")
				return nil, fmt.Errorf("seed user achievement: %w", err)
			}
			report.UserAchievements++
		}
	}
	observability.RecordSeedEvent(ctx, "user_achievements", "success")

	return report, nil
}

// createAlert goes through the create_alert_with_location database function
// on postgres so the geography column is populated; elsewhere it falls back
// to a plain insert without a location.
func createAlert(ctx context.Context, db *gorm.DB, rng *rand.Rand, userID string, tripID uint) error {
	content := domain.AlertContent{Hazard: "Heavy Rain", Severity: "high", Advice: "Drive slowly"}

	if db.Dialector.Name() == "postgres" {
		contentJSON, err := json.Marshal(content)
		if err != nil {
			return fmt.Errorf("marshal alert content: %w", err)
		}
		location := map[string]any{
			"type":        "Point",
			"coordinates": []float64{27.8 + rng.Float64()*0.6, -26.4 + rng.Float64()*0.8},
		}
		locationJSON, err := json.Marshal(location)
		if err != nil {
			return fmt.Errorf("marshal alert location: %w", err)
		}
		return db.WithContext(ctx).Exec(
			"SELECT create_alert_with_location(?, ?, ?, ?, ?::jsonb, ?::jsonb)",
			userID,
			tripID,
			alertTypes[rng.Intn(len(alertTypes))],
			alertStatuses[rng.Intn(len(alertStatuses))],
			string(contentJSON),
			string(locationJSON),
		).Error
	}

	alert := domain.Alert{
		UserID:  userID,
		TripID:  tripID,
		Type:    alertTypes[rng.Intn(len(alertTypes))],
		Status:  alertStatuses[rng.Intn(len(alertStatuses))],
		Content: content,
	}
	return db.WithContext(ctx).Create(&alert).Error
}

func slug(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		}
	}
	return string(out)
}
