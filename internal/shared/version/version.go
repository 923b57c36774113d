package version

// Version is overridden at build time with -ldflags "-X layered/internal/shared/version.Version=...".
var Version = "dev"
