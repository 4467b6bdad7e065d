package config

import "time"

func LoadTestConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8081,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Name:     "veranda_test",
			User:     "test_user",
			Password: "test_password",
		},
		JWT: JWTConfig{
			Secret: "test-secret",
			TTL:    time.Hour,
		},
		Auth: AuthConfig{
			AdminRoleID:   1,
			OwnerRoleName: "Owner",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			DB:   0,
		},
	}
}
