package repository

import (
	"fmt"

	"github.com/yourusername/splitsight/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Event      EventRepository
	Competitor CompetitorRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Event:      NewPostgresEventRepository(db),
		Competitor: NewPostgresCompetitorRepository(db),
	}, nil
}
