package domain

import "strings"

// EngineKind identifies one of the interchangeable bundling engines.
type EngineKind string

const (
	// EngineWebpack drives webpack in a Node subprocess. It is the default engine.
	EngineWebpack EngineKind = "webpack"
	// EngineESBuild drives esbuild in-process. It is selected by the experimental toggle.
	EngineESBuild EngineKind = "esbuild"
)

// LoggingSubsystem is the name matched against the logging toggle to enable build progress output.
const LoggingSubsystem = "query-engine"

// Toggles holds the process-wide switches, captured once per build.
type Toggles struct {
	// ExperimentalBundler selects the esbuild engine when true.
	ExperimentalBundler bool
	// BundlerLogging lists the subsystems for which build progress logging is enabled.
	BundlerLogging string
}

// Engine returns the engine kind selected by the toggles.
func (t Toggles) Engine() EngineKind {
	if t.ExperimentalBundler {
		return EngineESBuild
	}
	return EngineWebpack
}

// ProgressLogging reports whether build progress logging is enabled for the query engine.
func (t Toggles) ProgressLogging() bool {
	return strings.Contains(t.BundlerLogging, LoggingSubsystem)
}

// BuildRequest describes a single build invocation. It is immutable once created.
type BuildRequest struct {
	// RootDirectory is the project root holding the cache area and the schema snapshot.
	RootDirectory string
	// WorkingDirectory is the directory receiving the bundle output and engine caches.
	WorkingDirectory string
	// Verbose enables detailed progress lines.
	Verbose bool
	// Toggles are the process-wide switches read at the start of the build.
	Toggles Toggles
	// Settings are the values loaded from the orchestrator configuration file.
	Settings Settings
}

// Settings is the orchestrator configuration loaded from qeb.yaml.
type Settings struct {
	// Source is the path of the configuration file, empty when none was found.
	Source string
	// Entry overrides the synthesized entry module location.
	Entry string
	// Externals lists additional module names excluded from the bundle.
	Externals []string
	// Disabled lists additional modules replaced by an empty module.
	Disabled []string
	// Defines holds additional compile-time constants, already serialized as expressions.
	Defines map[string]string
	// Plugins lists the plugins enumerated into the query engine.
	Plugins []string
	// Node is the Node.js binary used to run subprocess engines.
	Node string
}
