package config

type StoreConfig interface {
	GetDatabaseURL() string
	GetRedisAddress() string
	GetRedisPassword() string
}

type Store struct{}

var _ StoreConfig = Store{}

// GetDatabaseURL is the hosted Postgres connection string. Empty uses the in-memory profile store.
func (Store) GetDatabaseURL() string {
	return GetEnv("DATABASE_URL", "")
}

// GetRedisAddress is host:port of the session cache. Empty uses in-memory sessions.
func (Store) GetRedisAddress() string {
	return GetEnv("REDIS_ADDRESS", "")
}

func (Store) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}
