package webpack

import _ "embed"

// RunnerFile drives the compiler: node runner.js <config.json> <report.json>.
const RunnerFile = "runner.js"

// StorageLoaderFile rewrites the storage engine binary lookup during bundling.
const StorageLoaderFile = "storage-loader.js"

// ConfigFile and ReportFile are exchanged with the runner.
const (
	ConfigFile = "config.json"
	ReportFile = "report.json"
)

//go:embed runner/runner.js
var runnerSource []byte

//go:embed runner/storage-loader.js
var storageLoaderSource []byte
