package domain

// Artifact references a produced bundle.
type Artifact struct {
	// Engine is the engine that produced the bundle.
	Engine EngineKind
	// Path is the absolute path of the bundle file.
	Path string
	// Assets lists the relocated assets written next to the bundle, relative to the output directory.
	Assets []string
	// Cached reports whether the bundle was reused from a warm cache.
	Cached bool
	// Warnings holds engine warnings that did not fail the build.
	Warnings []Diagnostic
}
