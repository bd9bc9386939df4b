package services

import (
	"fmt"
	"time"

	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
)

// MonthlyGrowth counts entities created in one calendar month
type MonthlyGrowth struct {
	Month  string
	Users  int64
	Boards int64
	Tasks  int64
}

// Stats is the admin dashboard summary
type Stats struct {
	repository.Totals
	Growth []MonthlyGrowth
}

// StatsService computes admin statistics
type StatsService struct {
	statsRepo repository.StatsRepository
	now       func() time.Time
}

// NewStatsService creates a new StatsService
func NewStatsService(statsRepo repository.StatsRepository) *StatsService {
	return &StatsService{
		statsRepo: statsRepo,
		now:       time.Now,
	}
}

// GetStats returns global totals and per-month growth for the last
// constants.GrowthMonths months, oldest first, ending with the current UTC month.
func (s *StatsService) GetStats() (*Stats, error) {
	totals, err := s.statsRepo.Totals()
	if err != nil {
		return nil, fmt.Errorf("failed to count entities: %w", err)
	}

	now := s.now().UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := current.AddDate(0, -(constants.GrowthMonths - 1), 0)

	growth := make([]MonthlyGrowth, constants.GrowthMonths)
	index := make(map[string]int, constants.GrowthMonths)
	for i := range growth {
		month := start.AddDate(0, i, 0).Format("2006-01")
		growth[i].Month = month
		index[month] = i
	}

	buckets := []struct {
		model interface{}
		count func(g *MonthlyGrowth)
	}{
		{&models.User{}, func(g *MonthlyGrowth) { g.Users++ }},
		{&models.Board{}, func(g *MonthlyGrowth) { g.Boards++ }},
		{&models.Task{}, func(g *MonthlyGrowth) { g.Tasks++ }},
	}
	for _, b := range buckets {
		// Stored timestamps use the local zone on some drivers
		times, err := s.statsRepo.CreatedSince(b.model, start.In(time.Local))
		if err != nil {
			return nil, fmt.Errorf("failed to load growth: %w", err)
		}
		for _, t := range times {
			if i, ok := index[t.UTC().Format("2006-01")]; ok {
				b.count(&growth[i])
			}
		}
	}

	return &Stats{Totals: *totals, Growth: growth}, nil
}
