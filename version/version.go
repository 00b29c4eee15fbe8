package version

// Version is overridden at build time via -ldflags "-X filebackup/version.Version=...".
var Version = "dev"
