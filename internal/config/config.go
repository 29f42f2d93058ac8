// Package config loads runtime configuration from defaults, an optional
// YAML config file and WALLETLEDGER_* environment variables. The resulting
// value is passed explicitly into constructors; nothing reads config from
// ambient process state.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved runtime configuration.
type Config struct {
	DataDir       string `mapstructure:"data_dir"`
	UsersDB       string `mapstructure:"users_db"`
	ListenAddr    string `mapstructure:"listen_addr"`
	RulesFile     string `mapstructure:"rules_file"`
	AdminUser     string `mapstructure:"admin_user"`
	AdminPassword string `mapstructure:"admin_password"`
}

// Load resolves configuration. cfgFile may be empty, in which case only
// defaults and environment variables apply.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("data_dir", "data")
	v.SetDefault("users_db", "data/users.db")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("rules_file", "")
	v.SetDefault("admin_user", "admin")
	v.SetDefault("admin_password", "admin123")

	v.SetEnvPrefix("walletledger")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
