package domain

// Command describes an external process invocation.
type Command struct {
	// Name is the executable, looked up in PATH when not absolute.
	Name string
	// Args are the arguments passed after Name.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds environment overrides applied on top of the process environment.
	Env map[string]string
}
