package config

// Version is the engramview binary version.
// Set at build time via: -ldflags "-X github.com/engramhq/engramview/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
