package storage

import "ptb/internal/domain"

// Storage persists and loads the last run's results (e.g. for the faills viewer).
type Storage interface {
	Save(output *domain.TestRunOutput) error
	Load() (*domain.TestRunOutput, error)
}
