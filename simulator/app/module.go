package app

import (
	"github.com/Gthulhu/fleetsim/config"
	"github.com/Gthulhu/fleetsim/simulator/client"
	"github.com/Gthulhu/fleetsim/simulator/domain"
	"github.com/Gthulhu/fleetsim/simulator/rest"
	"github.com/Gthulhu/fleetsim/simulator/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

func ConfigModule(configName string, configPath string) (fx.Option, error) {
	cfg, err := config.InitSimConfig(configName, configPath)
	if err != nil {
		return nil, err
	}

	return fx.Options(
		fx.Provide(func() config.SimConfig {
			return cfg
		}),
		fx.Provide(func(simCfg config.SimConfig) config.ServerConfig {
			return simCfg.Server
		}),
		fx.Provide(func(simCfg config.SimConfig) config.LoggingConfig {
			return simCfg.Logging
		}),
		fx.Provide(func(simCfg config.SimConfig) config.SimulationConfig {
			return simCfg.Simulation
		}),
		fx.Provide(func(simCfg config.SimConfig) config.AdvisorConfig {
			return simCfg.Advisor
		}),
		fx.Provide(func(simCfg config.SimConfig) config.AuthConfig {
			return simCfg.Auth
		}),
	), nil
}

// MetricsModule provides a private prometheus registry as both Registerer and Gatherer.
func MetricsModule() fx.Option {
	return fx.Options(
		fx.Provide(func() *prometheus.Registry {
			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			return registry
		}),
		fx.Provide(func(registry *prometheus.Registry) prometheus.Registerer {
			return registry
		}),
		fx.Provide(func(registry *prometheus.Registry) prometheus.Gatherer {
			return registry
		}),
	)
}

// AdapterModule provides the outbound advisor client, return domain.Advisor
func AdapterModule() fx.Option {
	return fx.Provide(client.NewAdvisorClient)
}

// ServiceModule creates an Fx module that provides the service layer, return domain.Service
func ServiceModule(configName string, configPath string) (fx.Option, error) {
	configModule, err := ConfigModule(configName, configPath)
	if err != nil {
		return nil, err
	}

	return fx.Options(
		configModule,
		MetricsModule(),
		AdapterModule(),
		fx.Provide(service.NewService),
		fx.Provide(func(svc *service.Service) domain.Service {
			return svc
		}),
	), nil
}

// HandlerModule creates an Fx module that provides the REST handler, return *rest.Handler
func HandlerModule(configName string, configPath string) (fx.Option, error) {
	serviceModule, err := ServiceModule(configName, configPath)
	if err != nil {
		return nil, err
	}

	return fx.Options(
		serviceModule,
		fx.Provide(rest.NewHandler),
	), nil
}
