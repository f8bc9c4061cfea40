package service

import (
	"context"

	"github.com/fawkesdbs/roadguard/internal/domain"
	"github.com/fawkesdbs/roadguard/internal/repository"

	"golang.org/x/sync/errgroup"
)

const (
	dashboardTripLimit  = 10
	dashboardAlertLimit = 20
)

type DashboardOverview struct {
	Profile      *domain.Profile      `json:"profile"`
	Vehicles     []domain.Vehicle     `json:"vehicles"`
	RecentTrips  []domain.Trip        `json:"recent_trips"`
	Alerts       []domain.Alert       `json:"alerts"`
	Achievements []domain.Achievement `json:"achievements"`
}

type DashboardService struct {
	auth  AuthServiceInterface
	fleet repository.FleetRepository
}

func NewDashboardService(auth AuthServiceInterface, fleet repository.FleetRepository) *DashboardService {
	return &DashboardService{auth: auth, fleet: fleet}
}

// Overview assembles the dashboard payload. The independent reads run
// concurrently; the first failure cancels the rest.
func (s *DashboardService) Overview(ctx context.Context, userID string) (*DashboardOverview, error) {
	overview := &DashboardOverview{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, err := s.auth.GetProfileByID(ctx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return ErrProfileNotFound
		}
		overview.Profile = profile
		return nil
	})
	g.Go(func() error {
		vehicles, err := s.fleet.VehiclesByUser(ctx, userID)
		overview.Vehicles = vehicles
		return err
	})
	g.Go(func() error {
		trips, err := s.fleet.RecentTripsByUser(ctx, userID, dashboardTripLimit)
		overview.RecentTrips = trips
		return err
	})
	g.Go(func() error {
		alerts, err := s.fleet.AlertsByUser(ctx, userID, dashboardAlertLimit)
		overview.Alerts = alerts
		return err
	})
	g.Go(func() error {
		achievements, err := s.fleet.AchievementsByUser(ctx, userID)
		overview.Achievements = achievements
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}
