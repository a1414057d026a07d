package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	// EnvPrefix prefixes every environment override, e.g. TEAMBOARD_PORT.
	EnvPrefix = "TEAMBOARD_"

	defaultPort       = 5000
	defaultEnv        = "development"
	defaultLogLevel   = "info"
	defaultDriver     = DriverMySQL
	defaultDBHost     = "127.0.0.1"
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "teamboard"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultSSLMode    = "disable"
	defaultSQLitePath = "teamboard.db"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0
	defaultCacheTTL   = 15
	defaultRateLimit  = 50
	defaultMetrics    = "/metrics"
	defaultMaxOpen    = 10
	defaultMaxIdle    = 5
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func defaultDBPortFor(driver string) int {
	switch driver {
	case DriverPostgres:
		return 5432
	case DriverSQLite:
		return 0
	default:
		return 3306
	}
}
