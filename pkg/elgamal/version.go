package elgamal

// Build metadata, set with -ldflags "-X".
var (
	Version = "v0.0.0-in-progress"
	Commit  = "unknown"
)

// ModuleVersion returns the elgamal-go release the binary was built from.
// Unreleased builds report v0.0.0-in-progress.
func ModuleVersion() string {
	return Version
}

// BuildCommit returns the commit the binary was built from, or "unknown".
func BuildCommit() string {
	return Commit
}
