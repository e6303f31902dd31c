package observability

import (
	"skillscan/internal/config"
)

// SettingsFromConfig resolves observability settings from the application
// config. The build version is used when no service version is configured.
func SettingsFromConfig(cfg *config.Config, version string) Settings {
	obs := cfg.Observability

	serviceVersion := obs.ServiceVersion
	if serviceVersion == "" {
		serviceVersion = version
	}

	return Settings{
		ServiceName:        obs.ServiceName,
		ServiceVersion:     serviceVersion,
		ServiceInstance:    obs.ServiceInstance,
		Enabled:            obs.Enabled,
		ConsoleOutput:      obs.ConsoleOutput || obs.Console.Enabled,
		PrettyPrint:        obs.Console.PrettyPrint,
		SampleRate:         obs.SampleRate,
		CollectionInterval: obs.Metrics.CollectionInterval,
		Prometheus: PrometheusSettings{
			Enabled:  obs.Metrics.Enabled && obs.Prometheus.Enabled,
			Endpoint: obs.Prometheus.Endpoint,
			Port:     obs.Prometheus.Port,
		},
		OTLP:          obs.OTLP,
		CustomMetrics: obs.CustomMetrics,
	}
}
