package version

// Version is stamped at build time with -ldflags "-X .../internal/version.Version=...".
var Version = "dev"
