package domain

import (
	"path/filepath"

	"github.com/gobwas/glob"
	"go.trai.ch/zerr"
)

// ExternalDirective tells the engine how an excluded module is provided at runtime.
type ExternalDirective string

const (
	// DirectiveExclude leaves the bare module name out of the bundle.
	DirectiveExclude ExternalDirective = "exclude"
	// DirectiveCommonJS defers the module to the host runtime's require.
	DirectiveCommonJS ExternalDirective = "commonjs"
	// DirectiveGlobal substitutes the module with a global symbol.
	DirectiveGlobal ExternalDirective = "global"
)

// FsWrapperGlobal is the global symbol replacing the filesystem built-in inside the bundle.
const FsWrapperGlobal = "_actualFsWrapper"

// ExternalEntry is one entry of an ExternalsTable.
type ExternalEntry struct {
	Name      string            `json:"name"`
	Directive ExternalDirective `json:"directive"`
	// Target is the name the directive points at: the module name for
	// DirectiveCommonJS, the global symbol for DirectiveGlobal.
	Target string `json:"target,omitempty"`
}

// Expression renders the entry the way a bundler externals directive is written,
// e.g. "commonjs path" or "global _actualFsWrapper". Bare names render as-is.
func (e ExternalEntry) Expression() string {
	if e.Directive == DirectiveExclude {
		return e.Name
	}
	return string(e.Directive) + " " + e.Target
}

// ExternalsTable is the ordered list of modules that are not inlined into the bundle.
type ExternalsTable []ExternalEntry

// Lookup returns the entry for the given module name.
func (t ExternalsTable) Lookup(name string) (ExternalEntry, bool) {
	for _, e := range t {
		if e.Name == name {
			return e, true
		}
	}
	return ExternalEntry{}, false
}

// Bare returns the names excluded verbatim, in order.
func (t ExternalsTable) Bare() []string {
	var names []string
	for _, e := range t {
		if e.Directive == DirectiveExclude {
			names = append(names, e.Name)
		}
	}
	return names
}

// Alias redirects a module specifier prefix to a concrete location or disables it.
type Alias struct {
	From string `json:"from"`
	To   string `json:"to,omitempty"`
	// Disabled replaces the module with an empty module.
	Disabled bool `json:"disabled,omitempty"`
}

// RelocationAction is what happens to a dependency file matched by a relocation rule.
type RelocationAction string

const (
	// RelocateNative rewrites asset lookups so binaries moved next to the bundle still resolve.
	RelocateNative RelocationAction = "relocate"
	// CopyResource copies the file as an opaque resource instead of parsing it as code.
	CopyResource RelocationAction = "resource"
)

// RelocationRule declares how dependency files matching a path pattern are handled.
type RelocationRule struct {
	// Pattern is a glob over slash-separated absolute paths.
	Pattern string `json:"pattern"`
	// Test is the equivalent regular expression source, for engines that match by regexp.
	Test   string           `json:"test"`
	Action RelocationAction `json:"action"`
	// PatchStorageLoader applies the native storage engine loader patch before relocation.
	PatchStorageLoader bool `json:"patchStorageLoader,omitempty"`
}

// RelocationPolicy is the ordered set of relocation rules. The first matching rule wins.
type RelocationPolicy struct {
	AssetBase string           `json:"assetBase"`
	Rules     []RelocationRule `json:"rules"`

	matchers []glob.Glob
}

// NewRelocationPolicy compiles the rule patterns.
func NewRelocationPolicy(assetBase string, rules []RelocationRule) (*RelocationPolicy, error) {
	matchers := make([]glob.Glob, len(rules))
	for i, rule := range rules {
		g, err := glob.Compile(rule.Pattern, '/')
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid relocation pattern"), "pattern", rule.Pattern)
		}
		matchers[i] = g
	}
	return &RelocationPolicy{AssetBase: assetBase, Rules: rules, matchers: matchers}, nil
}

// Match returns the first rule whose pattern matches the slash-separated path.
func (p *RelocationPolicy) Match(path string) (RelocationRule, bool) {
	if p == nil {
		return RelocationRule{}, false
	}
	for i, m := range p.matchers {
		if m.Match(path) {
			return p.Rules[i], true
		}
	}
	return RelocationRule{}, false
}

// CacheSpec locates the persistent engine cache and identifies its inputs.
type CacheSpec struct {
	Dir               string   `json:"dir"`
	Name              string   `json:"name"`
	BuildDependencies []string `json:"buildDependencies,omitempty"`
	// Fingerprint is derived from the rest of the configuration and the build dependencies.
	Fingerprint string `json:"-"`
}

// Target describes the runtime the bundle is produced for.
type Target struct {
	Format      string `json:"format"`
	Platform    string `json:"platform"`
	NodeVersion string `json:"nodeVersion"`
}

// EngineConfig is the engine-neutral configuration assembled for one build.
// Engines translate it into their own shape and never mutate it.
type EngineConfig struct {
	Engine     EngineKind        `json:"engine"`
	Name       string            `json:"name"`
	Root       string            `json:"root"`
	Entry      string            `json:"entry"`
	OutputDir  string            `json:"outputDir"`
	OutputFile string            `json:"outputFile"`
	Externals  ExternalsTable    `json:"externals"`
	Aliases    []Alias           `json:"aliases"`
	Defines    map[string]string `json:"defines"`
	Extensions []string          `json:"extensions"`
	Relocation *RelocationPolicy `json:"relocation"`
	Cache      CacheSpec         `json:"cache"`
	Target     Target            `json:"target"`
	SourceMaps bool              `json:"sourceMaps"`
	Minify     bool              `json:"minify"`
	HMR        bool              `json:"hmr"`
	// ProgressLogging attaches the build progress logger.
	ProgressLogging bool `json:"-"`
	Verbose         bool `json:"-"`
	// StorageBinary is the native binary the storage engine loader is patched to require.
	StorageBinary string `json:"storageBinary,omitempty"`
	// Node is the Node.js binary for subprocess engines.
	Node string `json:"node,omitempty"`
}

// OutputPath returns the absolute path of the bundle file.
func (c *EngineConfig) OutputPath() string {
	return filepath.Join(c.OutputDir, c.OutputFile)
}
