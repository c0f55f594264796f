package domain

import "path/filepath"

const (
	// CacheDirName is the name of the project cache area.
	CacheDirName = ".cache"

	// QueryEngineDirName is the name of the bundle output directory inside the cache area.
	QueryEngineDirName = "query-engine"

	// OutputFileName is the file name of the produced bundle.
	OutputFileName = "index.js"

	// AssetBase is the subfolder of the output directory that receives relocated assets.
	AssetBase = "assets"

	// SchemaFileName is the file name of the schema snapshot.
	SchemaFileName = "schema.gql"

	// EntryFileName is the file name of the synthesized entry module.
	EntryFileName = "query-engine-entry.js"

	// PluginsFileName is the file name of the enumerated plugin module.
	PluginsFileName = "query-engine-plugins.js"

	// VirtualModulesDirName is the directory backing the "$virtual" module namespace.
	VirtualModulesDirName = "_this_is_virtual_fs_path_"

	// VirtualNamespace is the logical namespace redirected to VirtualModulesDirName.
	VirtualNamespace = "$virtual"

	// ConfigFileName is the name of the orchestrator configuration file.
	ConfigFileName = "qeb.yaml"

	// SchemaSnapshotSymbol is the compile-time constant receiving the schema snapshot.
	SchemaSnapshotSymbol = "SCHEMA_SNAPSHOT"

	// BundleName is the human-readable name of the produced bundle.
	BundleName = "Query Engine"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// SchemaSnapshotPath returns <root>/.cache/schema.gql.
func SchemaSnapshotPath(root string) string {
	return filepath.Join(root, CacheDirName, SchemaFileName)
}

// EntryPath returns the default location of the synthesized entry module.
func EntryPath(root string) string {
	return filepath.Join(root, CacheDirName, EntryFileName)
}

// PluginsPath returns the location of the enumerated plugin module.
func PluginsPath(root string) string {
	return filepath.Join(root, CacheDirName, PluginsFileName)
}

// VirtualModulesPath returns the backing directory of the "$virtual" namespace.
func VirtualModulesPath(root string) string {
	return filepath.Join(root, CacheDirName, VirtualModulesDirName, VirtualNamespace)
}

// OutputDir returns <cwd>/.cache/query-engine.
func OutputDir(cwd string) string {
	return filepath.Join(cwd, CacheDirName, QueryEngineDirName)
}

// EngineCacheDir returns the persistent cache directory of one engine kind.
// It joins .cache, the engine kind and query-engine, and never equals OutputDir.
func EngineCacheDir(cwd string, kind EngineKind) string {
	return filepath.Join(cwd, CacheDirName, string(kind), QueryEngineDirName)
}

// ConfigPath returns the location of the orchestrator configuration file.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigFileName)
}
