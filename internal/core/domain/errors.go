package domain

import "go.trai.ch/zerr"

var (
	// ErrSnapshotUnreadable is returned when the schema snapshot cannot be read before a build.
	ErrSnapshotUnreadable = zerr.New("schema snapshot unreadable")

	// ErrBuildFailed is returned when the bundling engine reports a failed run.
	ErrBuildFailed = zerr.New("bundle build failed")

	// ErrTeardownFailed is returned when releasing engine resources fails after a successful run.
	ErrTeardownFailed = zerr.New("engine teardown failed")

	// ErrUnknownEngine is returned when no adapter is registered for the selected engine kind.
	ErrUnknownEngine = zerr.New("unknown bundling engine")

	// ErrSessionClosed is returned when a session is used after it has been closed.
	ErrSessionClosed = zerr.New("engine session already closed")

	// ErrRunnerProtocol is returned when the engine subprocess produces an unreadable report.
	ErrRunnerProtocol = zerr.New("malformed engine runner report")

	// ErrPluginEnumerationFailed is returned when the plugin list cannot be written.
	ErrPluginEnumerationFailed = zerr.New("failed to enumerate query engine plugins")
)

var (
	// ErrModuleNotFound is returned when a package is not installed below the project root.
	ErrModuleNotFound = zerr.New("module not found")

	// ErrInvalidSettings is returned when the settings file cannot be parsed.
	ErrInvalidSettings = zerr.New("invalid settings file")
)
