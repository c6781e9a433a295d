package platform

// Package platform contains OS/platform integration and external tooling glue:
// per-host storage locations, filesystem helpers, yt-dlp detection and
// yt-dlp progress parsing.
