package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "DECANTLY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "DECANTLY_DB_DSN"
	EnvDBHost = "DECANTLY_DB_HOST"
	EnvDBUser = "DECANTLY_DB_USER"
	EnvDBName = "DECANTLY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
