package config

import "go.trai.ch/qeb/internal/core/domain"

const (
	// ExperimentalBundlerEnv selects the esbuild engine when set to a non-empty value.
	ExperimentalBundlerEnv = "QEB_EXPERIMENTAL_BUNDLER"
	// BundlerLoggingEnv lists the subsystems that log build progress.
	BundlerLoggingEnv = "QEB_BUNDLER_LOGGING"
)

// TogglesFromEnv captures the process toggles once. getenv is usually os.Getenv.
func TogglesFromEnv(getenv func(string) string) domain.Toggles {
	return domain.Toggles{
		ExperimentalBundler: getenv(ExperimentalBundlerEnv) != "",
		BundlerLogging:      getenv(BundlerLoggingEnv),
	}
}
