package repository

import (
	"time"

	"github.com/yukikurage/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormStatsRepository is a GORM implementation of StatsRepository
type GormStatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &GormStatsRepository{db: db}
}

// Totals returns global entity counts
func (r *GormStatsRepository) Totals() (*Totals, error) {
	totals := &Totals{
		TasksByPriority: map[models.Priority]int64{
			models.PriorityLow:    0,
			models.PriorityMedium: 0,
			models.PriorityHigh:   0,
		},
	}

	counts := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{r.db.Model(&models.User{}), &totals.Users},
		{r.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin), &totals.Admins},
		{r.db.Model(&models.Board{}), &totals.Boards},
		{r.db.Model(&models.List{}), &totals.Lists},
		{r.db.Model(&models.Task{}), &totals.Tasks},
		{r.db.Model(&models.Task{}).Where("completed = ?", true), &totals.CompletedTasks},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	var rows []struct {
		Priority models.Priority
		Count    int64
	}
	if err := r.db.Model(&models.Task{}).
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		totals.TasksByPriority[row.Priority] = row.Count
	}

	return totals, nil
}

// CreatedSince returns creation timestamps newer than since
func (r *GormStatsRepository) CreatedSince(model interface{}, since time.Time) ([]time.Time, error) {
	var times []time.Time
	if err := r.db.Model(model).
		Where("created_at >= ?", since).
		Pluck("created_at", &times).Error; err != nil {
		return nil, err
	}
	return times, nil
}
