package webpack

import (
	"path/filepath"

	"go.trai.ch/qeb/internal/core/domain"
)

// compilerConfig is the compiler configuration handed to the runner. The qeb
// section carries the parts the runner turns into loaders and plugins.
type compilerConfig struct {
	Name             string          `json:"name"`
	Mode             string          `json:"mode"`
	Context          string          `json:"context"`
	Entry            string          `json:"entry"`
	Target           string          `json:"target"`
	ExternalsPresets map[string]bool `json:"externalsPresets"`
	Externals        []any           `json:"externals"`
	Output           outputConfig    `json:"output"`
	Resolve          resolveConfig   `json:"resolve"`
	Cache            cacheConfig     `json:"cache"`
	Devtool          bool            `json:"devtool"`
	Optimization     map[string]bool `json:"optimization"`
	Qeb              runnerOptions   `json:"qeb"`
}

type outputConfig struct {
	Path          string `json:"path"`
	Filename      string `json:"filename"`
	LibraryTarget string `json:"libraryTarget"`
}

type resolveConfig struct {
	Extensions []string      `json:"extensions"`
	Alias      []aliasConfig `json:"alias"`
}

// aliasConfig uses the array form of resolve.alias so order is kept.
// Alias is either a path or false.
type aliasConfig struct {
	Name  string `json:"name"`
	Alias any    `json:"alias"`
}

type cacheConfig struct {
	Type              string              `json:"type"`
	Name              string              `json:"name"`
	CacheDirectory    string              `json:"cacheDirectory"`
	Version           string              `json:"version"`
	BuildDependencies map[string][]string `json:"buildDependencies,omitempty"`
}

type runnerOptions struct {
	Defines       map[string]string `json:"defines"`
	Rules         []ruleOptions     `json:"rules"`
	AssetBase     string            `json:"assetBase"`
	StorageBinary string            `json:"storageBinary,omitempty"`
	StorageLoader string            `json:"storageLoader"`
	Progress      bool              `json:"progress"`
}

type ruleOptions struct {
	Test               string `json:"test"`
	Action             string `json:"action"`
	PatchStorageLoader bool   `json:"patchStorageLoader,omitempty"`
}

// translate maps an engine configuration to the compiler configuration.
// runnerDir holds the runner scripts.
func translate(cfg *domain.EngineConfig, runnerDir string) compilerConfig {
	out := compilerConfig{
		Name:             cfg.Name,
		Mode:             "none",
		Context:          cfg.Root,
		Entry:            cfg.Entry,
		Target:           "node",
		ExternalsPresets: map[string]bool{"node": false},
		Externals:        externals(cfg.Externals),
		Output: outputConfig{
			Path:          cfg.OutputDir,
			Filename:      cfg.OutputFile,
			LibraryTarget: cfg.Target.Format,
		},
		Resolve: resolveConfig{
			Extensions: cfg.Extensions,
			Alias:      aliases(cfg.Aliases),
		},
		Cache: cacheConfig{
			Type:           "filesystem",
			Name:           cfg.Cache.Name,
			CacheDirectory: cfg.Cache.Dir,
			Version:        cfg.Cache.Fingerprint,
		},
		Devtool:      cfg.SourceMaps,
		Optimization: map[string]bool{"minimize": cfg.Minify},
		Qeb: runnerOptions{
			Defines:       cfg.Defines,
			AssetBase:     domain.AssetBase,
			StorageBinary: cfg.StorageBinary,
			StorageLoader: filepath.Join(runnerDir, StorageLoaderFile),
			Progress:      cfg.ProgressLogging,
		},
	}

	if len(cfg.Cache.BuildDependencies) > 0 {
		out.Cache.BuildDependencies = map[string][]string{"config": cfg.Cache.BuildDependencies}
	}

	if cfg.Relocation != nil {
		out.Qeb.AssetBase = cfg.Relocation.AssetBase
		for _, rule := range cfg.Relocation.Rules {
			out.Qeb.Rules = append(out.Qeb.Rules, ruleOptions{
				Test:               rule.Test,
				Action:             string(rule.Action),
				PatchStorageLoader: rule.PatchStorageLoader,
			})
		}
	}
	return out
}

// externals lists bare names first, then one object mapping every other entry
// to its "<type> <target>" expression.
func externals(table domain.ExternalsTable) []any {
	var list []any
	mapped := map[string]string{}
	for _, entry := range table {
		if entry.Directive == domain.DirectiveExclude {
			list = append(list, entry.Name)
			continue
		}
		mapped[entry.Name] = entry.Expression()
	}
	if len(mapped) > 0 {
		list = append(list, mapped)
	}
	return list
}

func aliases(in []domain.Alias) []aliasConfig {
	out := make([]aliasConfig, 0, len(in))
	for _, a := range in {
		var target any = a.To
		if a.Disabled {
			target = false
		}
		out = append(out, aliasConfig{Name: a.From, Alias: target})
	}
	return out
}
