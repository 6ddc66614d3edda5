package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type SimConfig struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Advisor    AdvisorConfig    `mapstructure:"advisor"`
	Auth       AuthConfig       `mapstructure:"auth"`
}

type SimulationConfig struct {
	TickInterval   time.Duration `mapstructure:"tick_interval"`
	MigrationDelay time.Duration `mapstructure:"migration_delay"`
	// Seed of the random source; 0 seeds from the wall clock.
	Seed        uint64 `mapstructure:"seed"`
	InitialPods int    `mapstructure:"initial_pods"`
	OnPremPods  int    `mapstructure:"on_prem_pods"`
	HistorySize int    `mapstructure:"history_size"`
	ErrorWindow int    `mapstructure:"error_window"`
	// FleetFile is an optional YAML fleet seed; when set it replaces the random population.
	FleetFile string `mapstructure:"fleet_file"`
}

type AdvisorConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	APIKey          SecretValue   `mapstructure:"api_key"`
	Timeout         time.Duration `mapstructure:"timeout"`
	RecentErrorLogs int           `mapstructure:"recent_error_logs"`
	LogExcerpt      int           `mapstructure:"log_excerpt"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	// HonorTargetEnvironment makes MIGRATE recommendations use their own target environment
	// instead of toggling the pod's current one.
	HonorTargetEnvironment bool `mapstructure:"honor_target_environment"`
}

type AuthConfig struct {
	Enabled         bool        `mapstructure:"enabled"`
	RsaPublicKeyPem SecretValue `mapstructure:"rsa_public_key_pem"`
}

var (
	simCfg *SimConfig
)

func GetSimConfig() *SimConfig {
	return simCfg
}

func setSimDefaults(v *viper.Viper) {
	v.SetDefault("server.host", ":8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("simulation.tick_interval", 2*time.Second)
	v.SetDefault("simulation.migration_delay", 3*time.Second)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.initial_pods", 8)
	v.SetDefault("simulation.on_prem_pods", 5)
	v.SetDefault("simulation.history_size", 20)
	v.SetDefault("simulation.error_window", 10)
	v.SetDefault("simulation.fleet_file", "")
	v.SetDefault("advisor.base_url", "")
	v.SetDefault("advisor.api_key", "")
	v.SetDefault("advisor.timeout", 30*time.Second)
	v.SetDefault("advisor.recent_error_logs", 3)
	v.SetDefault("advisor.log_excerpt", 50)
	v.SetDefault("advisor.cache_ttl", 30*time.Second)
	v.SetDefault("advisor.honor_target_environment", false)
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.rsa_public_key_pem", "")
}

func InitSimConfig(configName string, configPath string) (SimConfig, error) {
	var cfg SimConfig
	v := viper.New()
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	if configName == "" {
		configName = "sim_config"
	}
	v.AddConfigPath(GetAbsPath("config"))
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.SetEnvPrefix("SIM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setSimDefaults(v)
	err := v.ReadInConfig()
	if err != nil {
		return cfg, err
	}

	err = v.Unmarshal(&cfg)
	if err != nil {
		return cfg, err
	}
	simCfg = &cfg
	return cfg, nil
}
