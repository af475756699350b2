package config

type Config interface {
	EnvConfig
	ClientConfig
	TokenConfig
	ServerConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetEnv() string
	GetLogLevel() string
	GetAPIBaseURL() string
}

type mainConfig struct {
	EnvVars
	Client
	Tokens
	Server
}

func New() Config {
	return mainConfig{}
}
