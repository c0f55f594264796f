package esbuild

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/qeb/internal/core/domain"
	"go.trai.ch/qeb/internal/core/ports"
	"go.trai.ch/qeb/internal/engine/assembler"
	"go.trai.ch/zerr"
)

const (
	globalNamespace = "qeb-global"
	emptyNamespace  = "qeb-empty"
	nativeNamespace = "qeb-native"
	nodePrefix      = "node:"
)

// exactFilter matches any of names as a whole specifier, with or without the node: prefix.
func exactFilter(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = regexp.QuoteMeta(name)
	}
	return `^(` + nodePrefix + `)?(` + strings.Join(quoted, "|") + `)$`
}

// externalsPlugin applies the externals table: excluded and commonjs entries
// stay external, global entries load from a global symbol.
func externalsPlugin(table domain.ExternalsTable) api.Plugin {
	names := make([]string, len(table))
	for i, entry := range table {
		names[i] = entry.Name
	}

	return api.Plugin{
		Name: "qeb-externals",
		Setup: func(build api.PluginBuild) {
			if len(names) == 0 {
				return
			}
			build.OnResolve(api.OnResolveOptions{Filter: exactFilter(names)},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					name := strings.TrimPrefix(args.Path, nodePrefix)
					entry, ok := table.Lookup(name)
					if !ok {
						return api.OnResolveResult{}, nil
					}
					switch entry.Directive {
					case domain.DirectiveGlobal:
						return api.OnResolveResult{Path: entry.Target, Namespace: globalNamespace}, nil
					case domain.DirectiveCommonJS:
						return api.OnResolveResult{Path: entry.Target, External: true}, nil
					default:
						return api.OnResolveResult{Path: args.Path, External: true}, nil
					}
				})

			build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: globalNamespace},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					contents := "module.exports = global." + args.Path + ";\n"
					return api.OnLoadResult{Contents: &contents, Loader: api.LoaderJS}, nil
				})
		},
	}
}

// aliasPlugin redirects aliased specifiers and replaces disabled modules with an empty module.
func aliasPlugin(aliases []domain.Alias) api.Plugin {
	return api.Plugin{
		Name: "qeb-aliases",
		Setup: func(build api.PluginBuild) {
			for _, alias := range aliases {
				filter := `^` + regexp.QuoteMeta(alias.From) + `(/.*)?$`

				if alias.Disabled {
					build.OnResolve(api.OnResolveOptions{Filter: filter},
						func(args api.OnResolveArgs) (api.OnResolveResult, error) {
							return api.OnResolveResult{Path: args.Path, Namespace: emptyNamespace}, nil
						})
					continue
				}

				build.OnResolve(api.OnResolveOptions{Filter: filter},
					func(args api.OnResolveArgs) (api.OnResolveResult, error) {
						rest := strings.TrimPrefix(strings.TrimPrefix(args.Path, alias.From), "/")
						target := alias.To
						if rest != "" {
							target = filepath.Join(alias.To, filepath.FromSlash(rest))
						}

						resolved := build.Resolve(target, api.ResolveOptions{
							Importer:   args.Importer,
							ResolveDir: args.ResolveDir,
							Kind:       args.Kind,
						})
						if len(resolved.Errors) > 0 {
							return api.OnResolveResult{Errors: resolved.Errors}, nil
						}
						return api.OnResolveResult{
							Path:      resolved.Path,
							External:  resolved.External,
							Namespace: resolved.Namespace,
						}, nil
					})
			}

			build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: emptyNamespace},
				func(api.OnLoadArgs) (api.OnLoadResult, error) {
					contents := "module.exports = {};\n"
					return api.OnLoadResult{Contents: &contents, Loader: api.LoaderJS}, nil
				})
		},
	}
}

// relocator copies native binaries next to the bundle and patches the storage engine loader.
type relocator struct {
	policy    *domain.RelocationPolicy
	root      string
	outputDir string
	binary    string

	mu      sync.Mutex
	assets  []string
	sources []string
}

func newRelocator(cfg *domain.EngineConfig) *relocator {
	return &relocator{
		policy:    cfg.Relocation,
		root:      cfg.Root,
		outputDir: cfg.OutputDir,
		binary:    cfg.StorageBinary,
	}
}

// Assets returns the relocated assets of the last build, relative to the output directory.
func (r *relocator) Assets() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	assets := slices.Clone(r.assets)
	slices.Sort(assets)
	return slices.Compact(assets)
}

// Sources returns the native modules relocated by the last build, relative to the
// root when they live below it. esbuild reports them under the plugin namespace, so
// the metafile inputs never include them.
func (r *relocator) Sources() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	sources := slices.Clone(r.sources)
	slices.Sort(sources)
	return slices.Compact(sources)
}

func (r *relocator) plugin() api.Plugin {
	return api.Plugin{
		Name: "qeb-relocation",
		Setup: func(build api.PluginBuild) {
			build.OnStart(func() (api.OnStartResult, error) {
				r.mu.Lock()
				r.assets = nil
				r.sources = nil
				r.mu.Unlock()
				return api.OnStartResult{}, nil
			})

			build.OnResolve(api.OnResolveOptions{Filter: `\.node$`},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					path := args.Path
					if !filepath.IsAbs(path) {
						path = filepath.Join(args.ResolveDir, filepath.FromSlash(path))
					}
					rule, ok := r.policy.Match(filepath.ToSlash(path))
					if !ok || rule.Action != domain.RelocateNative {
						return api.OnResolveResult{}, nil
					}
					return api.OnResolveResult{Path: path, Namespace: nativeNamespace}, nil
				})

			build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: nativeNamespace}, r.loadNative)

			build.OnLoad(api.OnLoadOptions{Filter: `\.[cm]?js$`, Namespace: "file"}, r.loadScript)
		},
	}
}

// loadNative copies the binary to the asset directory and requires it relative to the bundle.
func (r *relocator) loadNative(args api.OnLoadArgs) (api.OnLoadResult, error) {
	source := r.source(args.Path)
	name := assetName(args.Path, source)
	rel := filepath.Join(r.policy.AssetBase, name)

	if err := copyFile(args.Path, filepath.Join(r.outputDir, rel)); err != nil {
		return api.OnLoadResult{}, err
	}

	r.mu.Lock()
	r.assets = append(r.assets, filepath.ToSlash(rel))
	r.sources = append(r.sources, source)
	r.mu.Unlock()

	base, _ := json.Marshal(r.policy.AssetBase)
	file, _ := json.Marshal(name)
	contents := `module.exports = require(require("path").join(__dirname, ` + string(base) + `, ` + string(file) + `));` + "\n"
	return api.OnLoadResult{
		Contents:   &contents,
		Loader:     api.LoaderJS,
		ResolveDir: filepath.Dir(args.Path),
		WatchFiles: []string{args.Path},
	}, nil
}

func (r *relocator) source(path string) string {
	rel, err := filepath.Rel(r.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// assetName names a relocated module "<name>-<hash><ext>", hashing its source
// location so equally named modules from different packages stay apart.
func assetName(path, source string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	hash := fmt.Sprintf("%016x", xxhash.Sum64String(filepath.ToSlash(source)))
	return stem + "-" + hash[:8] + ext
}

// loadScript patches the storage engine loader. Other scripts fall through to esbuild.
func (r *relocator) loadScript(args api.OnLoadArgs) (api.OnLoadResult, error) {
	rule, ok := r.policy.Match(filepath.ToSlash(args.Path))
	if !ok || !rule.PatchStorageLoader || r.binary == "" {
		return api.OnLoadResult{}, nil
	}

	source, err := os.ReadFile(args.Path) //nolint:gosec // path comes from the resolver
	if err != nil {
		return api.OnLoadResult{}, zerr.With(zerr.Wrap(err, "failed to read storage loader"), "path", args.Path)
	}

	patched, changed := assembler.PatchStorageLoader(string(source), r.binary)
	if !changed {
		return api.OnLoadResult{}, nil
	}
	return api.OnLoadResult{
		Contents:   &patched,
		Loader:     api.LoaderJS,
		ResolveDir: filepath.Dir(args.Path),
	}, nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create asset directory"), "path", dst)
	}

	in, err := os.Open(src) //nolint:gosec // path comes from the resolver
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open native module"), "path", src)
	}
	defer in.Close() //nolint:errcheck // read-only

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, domain.FilePerm) //nolint:gosec // output directory
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create asset"), "path", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to copy native module"), "path", dst)
	}
	return out.Close()
}

// progressPlugin reports build start and end to the vertex.
func progressPlugin(vertex ports.Vertex) api.Plugin {
	return api.Plugin{
		Name: "qeb-progress",
		Setup: func(build api.PluginBuild) {
			var started time.Time
			build.OnStart(func() (api.OnStartResult, error) {
				started = time.Now()
				vertex.Log(domain.LogLevelInfo, "bundling "+strings.Join(build.InitialOptions.EntryPoints, ", "))
				return api.OnStartResult{}, nil
			})
			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				elapsed := time.Since(started).Round(time.Millisecond)
				level := domain.LogLevelInfo
				if len(result.Errors) > 0 {
					level = domain.LogLevelWarn
				}
				vertex.Log(level, summarize(len(result.Errors), len(result.Warnings), elapsed))
				return api.OnEndResult{}, nil
			})
		},
	}
}

func summarize(errs, warnings int, elapsed time.Duration) string {
	msg := fmt.Sprintf("finished in %s", elapsed)
	if errs > 0 {
		msg += fmt.Sprintf(", errors: %d", errs)
	}
	if warnings > 0 {
		msg += fmt.Sprintf(", warnings: %d", warnings)
	}
	return msg
}
