package repository

import (
	"fmt"

	"github.com/deppfellow/musician-api/internal/config"
	"github.com/deppfellow/musician-api/internal/musician"
	"github.com/deppfellow/musician-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	// Musician is the store selected by store.driver.
	Musician musician.Store
}

// NewRepositories builds the musician store for the configured driver on top
// of the connection the server opened for it.
func NewRepositories(s *server.Server) (*Repositories, error) {
	cfg := s.Config

	var store musician.Store
	switch cfg.Store.Driver {
	case config.DriverMemory, "":
		store = NewMemoryMusicianRepository()

	case config.DriverPostgres:
		if s.DB == nil {
			return nil, fmt.Errorf("store driver %q: database not connected", cfg.Store.Driver)
		}
		store = NewPostgresMusicianRepository(s.DB.Pool)

	case config.DriverRedis:
		if s.Redis == nil {
			return nil, fmt.Errorf("store driver %q: redis not connected", cfg.Store.Driver)
		}
		store = NewRedisMusicianRepository(s.Redis, cfg.Redis.Key)

	case config.DriverMongo:
		if s.Mongo == nil {
			return nil, fmt.Errorf("store driver %q: mongo not connected", cfg.Store.Driver)
		}
		store = NewMongoMusicianRepository(s.Mongo.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))

	case config.DriverSQLite:
		if s.SQLite == nil {
			return nil, fmt.Errorf("store driver %q: sqlite not open", cfg.Store.Driver)
		}
		store = NewSQLiteMusicianRepository(s.SQLite)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	s.Logger.Info().Str("store", cfg.Store.Driver).Msg("musician store ready")

	return &Repositories{Musician: store}, nil
}
