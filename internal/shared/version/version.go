package version

// Version is the benchlens release version, overridable at build time via
// -ldflags "-X benchlens/internal/shared/version.Version=...".
var Version = "0.4.0"
