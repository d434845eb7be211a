package seeder

import (
	"context"

	"random-coffee/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
