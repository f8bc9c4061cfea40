package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fawkesdbs/roadguard/internal/domain"
)

type stubFleetRepo struct {
	vehicles     []domain.Vehicle
	trips        []domain.Trip
	alerts       []domain.Alert
	achievements []domain.Achievement
	tripsErr     error

	tripLimit  int
	alertLimit int
}

func (r *stubFleetRepo) VehiclesByUser(_ context.Context, _ string) ([]domain.Vehicle, error) {
	return r.vehicles, nil
}

func (r *stubFleetRepo) RecentTripsByUser(_ context.Context, _ string, limit int) ([]domain.Trip, error) {
	r.tripLimit = limit
	if r.tripsErr != nil {
		return nil, r.tripsErr
	}
	return r.trips, nil
}

func (r *stubFleetRepo) AlertsByUser(_ context.Context, _ string, limit int) ([]domain.Alert, error) {
	r.alertLimit = limit
	return r.alerts, nil
}

func (r *stubFleetRepo) AchievementsByUser(_ context.Context, _ string) ([]domain.Achievement, error) {
	return r.achievements, nil
}

func TestDashboardOverview(t *testing.T) {
	t.Run("assembles all sections", func(t *testing.T) {
		authFx := newAuthFixture()
		authFx.profiles.byID["identity-1"] = &domain.Profile{ID: "identity-1", Email: "driver@example.com"}
		fleet := &stubFleetRepo{
			vehicles:     []domain.Vehicle{{ID: 1, UserID: "identity-1"}},
			trips:        []domain.Trip{{ID: 7, UserID: "identity-1"}},
			alerts:       []domain.Alert{{ID: 3, UserID: "identity-1"}},
			achievements: []domain.Achievement{{ID: 2, Name: "Safe Streak"}},
		}
		svc := NewDashboardService(authFx.auth, fleet)

		overview, err := svc.Overview(context.Background(), "identity-1")
		if err != nil {
			t.Fatalf("overview: %v", err)
		}
		if overview.Profile == nil || overview.Profile.ID != "identity-1" {
			t.Fatalf("unexpected profile %+v", overview.Profile)
		}
		if len(overview.Vehicles) != 1 || len(overview.RecentTrips) != 1 || len(overview.Alerts) != 1 || len(overview.Achievements) != 1 {
			t.Fatalf("missing sections: %+v", overview)
		}
		if fleet.tripLimit != dashboardTripLimit || fleet.alertLimit != dashboardAlertLimit {
			t.Fatalf("unexpected limits: trips=%d alerts=%d", fleet.tripLimit, fleet.alertLimit)
		}
	})

	t.Run("missing profile fails the whole overview", func(t *testing.T) {
		authFx := newAuthFixture()
		svc := NewDashboardService(authFx.auth, &stubFleetRepo{})

		if _, err := svc.Overview(context.Background(), "ghost"); !errors.Is(err, ErrProfileNotFound) {
			t.Fatalf("expected ErrProfileNotFound, got %v", err)
		}
	})

	t.Run("fleet read error propagates", func(t *testing.T) {
		authFx := newAuthFixture()
		authFx.profiles.byID["identity-1"] = &domain.Profile{ID: "identity-1"}
		fleet := &stubFleetRepo{tripsErr: errors.New("query timeout")}
		svc := NewDashboardService(authFx.auth, fleet)

		if _, err := svc.Overview(context.Background(), "identity-1"); err == nil {
			t.Fatal("expected fleet error to propagate")
		}
	})
}
