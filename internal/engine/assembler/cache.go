package assembler

import (
	"go.trai.ch/qeb/internal/core/domain"
)

// CacheName identifies the query engine bundle inside an engine cache.
const CacheName = "query-engine"

// NewCacheSpec returns the cache location for the engine. The directory is
// always distinct from the output directory. The settings file, when present,
// is the only build dependency.
func NewCacheSpec(cwd string, kind domain.EngineKind, settings domain.Settings) domain.CacheSpec {
	spec := domain.CacheSpec{
		Dir:  domain.EngineCacheDir(cwd, kind),
		Name: CacheName,
	}
	if settings.Source != "" {
		spec.BuildDependencies = []string{settings.Source}
	}
	return spec
}
