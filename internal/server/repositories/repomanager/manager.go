package repomanager

import (
	"context"
	"database/sql"

	"github.com/HassanMahra/HealthAppProject/internal/dbx"
	"github.com/HassanMahra/HealthAppProject/internal/server/repositories/profiles"
	"github.com/HassanMahra/HealthAppProject/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// constructors serve both plain connections and transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
}
