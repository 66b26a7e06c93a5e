package version

// Version is the drydock version, overridden at build time via -ldflags
var Version = "dev"
