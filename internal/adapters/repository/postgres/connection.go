package postgres

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/taskward/api/internal/config"
)

func Connect(cfg *config.Config) (*sqlx.DB, error) {
	return sqlx.Connect("postgres", cfg.DBConnString())
}
