package dto

import (
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/services"
)

// MonthlyGrowthDTO counts entities created in one month
type MonthlyGrowthDTO struct {
	Month  string `json:"month"`
	Users  int64  `json:"users"`
	Boards int64  `json:"boards"`
	Tasks  int64  `json:"tasks"`
}

// StatsDTO represents the admin dashboard in API responses
type StatsDTO struct {
	TotalUsers      int64              `json:"totalUsers"`
	TotalAdmins     int64              `json:"totalAdmins"`
	TotalBoards     int64              `json:"totalBoards"`
	TotalLists      int64              `json:"totalLists"`
	TotalTasks      int64              `json:"totalTasks"`
	CompletedTasks  int64              `json:"completedTasks"`
	TasksByPriority map[string]int64   `json:"tasksByPriority"`
	Growth          []MonthlyGrowthDTO `json:"growth"`
}

// ToStatsDTO converts service stats to StatsDTO
func ToStatsDTO(stats services.Stats) StatsDTO {
	byPriority := map[string]int64{
		string(models.PriorityLow):    0,
		string(models.PriorityMedium): 0,
		string(models.PriorityHigh):   0,
	}
	for priority, count := range stats.TasksByPriority {
		byPriority[string(priority)] = count
	}

	growth := make([]MonthlyGrowthDTO, len(stats.Growth))
	for i, g := range stats.Growth {
		growth[i] = MonthlyGrowthDTO{
			Month:  g.Month,
			Users:  g.Users,
			Boards: g.Boards,
			Tasks:  g.Tasks,
		}
	}

	return StatsDTO{
		TotalUsers:      stats.Users,
		TotalAdmins:     stats.Admins,
		TotalBoards:     stats.Boards,
		TotalLists:      stats.Lists,
		TotalTasks:      stats.Tasks,
		CompletedTasks:  stats.CompletedTasks,
		TasksByPriority: byPriority,
		Growth:          growth,
	}
}
