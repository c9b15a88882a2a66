package localstore

import (
	"time"

	"github.com/taskdeck/taskdeck/internal/types"
)

// SeedBoards returns the sample boards used on first load when seeding is
// enabled. IDs are fixed so repeated seeding is stable.
func SeedBoards() []types.Board {
	now := time.Now().UTC()
	return []types.Board{
		{
			ID:          "seed-personal",
			Title:       "Personal",
			Description: "Errands, appointments, and everything off the clock",
			Color:       "#22c55e",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "seed-work",
			Title:       "Work",
			Description: "Projects and deadlines for the day job",
			Color:       "#3b82f6",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}
