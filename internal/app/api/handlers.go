package api

import (
	"time"

	"barpos/internal/auth"
	"barpos/internal/catalog"
	"barpos/internal/common/logger"
	"barpos/internal/engine"
	"barpos/internal/sales"
	"barpos/internal/tables"
	"barpos/internal/users"
)

type Handlers struct {
	engine   *engine.Engine
	catalog  *catalog.Service
	tables   *tables.Service
	users    *users.Service
	sales    *sales.Service
	sessions auth.SessionStore
	ttl      time.Duration
	log      *logger.Logger
}

func NewHandlers(
	eng *engine.Engine,
	cat *catalog.Service,
	tbl *tables.Service,
	usr *users.Service,
	sls *sales.Service,
	sessions auth.SessionStore,
	sessionTTL time.Duration,
	log *logger.Logger,
) *Handlers {
	return &Handlers{
		engine: eng, catalog: cat, tables: tbl, users: usr, sales: sls,
		sessions: sessions, ttl: sessionTTL, log: log,
	}
}
