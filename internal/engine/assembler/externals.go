package assembler

import (
	"slices"

	"go.trai.ch/qeb/internal/core/domain"
)

// BuiltinModules lists the modules built into the Node.js >= 14.15 runtime.
var BuiltinModules = []string{
	"_http_agent", "_http_client", "_http_common", "_http_incoming", "_http_outgoing", "_http_server",
	"_stream_duplex", "_stream_passthrough", "_stream_readable", "_stream_transform", "_stream_wrap",
	"_stream_writable", "_tls_common", "_tls_wrap",
	"assert", "assert/strict", "async_hooks", "buffer", "child_process", "cluster", "console",
	"constants", "crypto", "dgram", "diagnostics_channel", "dns", "dns/promises", "domain", "events",
	"fs", "fs/promises", "http", "http2", "https", "inspector", "module", "net", "os", "path",
	"path/posix", "path/win32", "perf_hooks", "process", "punycode", "querystring", "readline",
	"repl", "stream", "stream/promises", "string_decoder", "sys", "timers", "timers/promises", "tls",
	"trace_events", "tty", "url", "util", "util/types", "v8", "vm", "wasi", "worker_threads", "zlib",
}

// ExcludedModules are required on code paths the query engine never takes.
var ExcludedModules = []string{
	// optional dependency of the storage engine, the default encoding does not need it
	"cbor-x",
	// undeclared dependency of the console logger
	"babel-runtime/helpers/asyncToGenerator",
	// the HTTP client has an electron-specific code path
	"electron",
}

// RenderPageModule is resolved next to the bundle at runtime when bundling with esbuild.
const RenderPageModule = "routes/render-page"

// ResolveExternals builds the ordered externals table for the given engine.
// Every built-in gets exactly one directive: fs is substituted with the global
// filesystem wrapper, every other built-in is left to the runtime's require.
func ResolveExternals(kind domain.EngineKind, extra []string) domain.ExternalsTable {
	table := make(domain.ExternalsTable, 0, len(ExcludedModules)+len(extra)+len(BuiltinModules)+1)

	seen := make(map[string]struct{})
	exclude := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		table = append(table, domain.ExternalEntry{Name: name, Directive: domain.DirectiveExclude})
	}

	for _, name := range ExcludedModules {
		exclude(name)
	}
	for _, name := range extra {
		if slices.Contains(BuiltinModules, name) {
			continue
		}
		exclude(name)
	}
	if kind == domain.EngineESBuild {
		exclude(RenderPageModule)
	}

	for _, name := range BuiltinModules {
		if name == "fs" {
			table = append(table, domain.ExternalEntry{
				Name:      name,
				Directive: domain.DirectiveGlobal,
				Target:    domain.FsWrapperGlobal,
			})
			continue
		}
		table = append(table, domain.ExternalEntry{
			Name:      name,
			Directive: domain.DirectiveCommonJS,
			Target:    name,
		})
	}

	return table
}
