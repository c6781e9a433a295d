// Package catalog reads and augments the TOML sound catalog. The bundled
// catalog is read-only; sounds fetched at runtime are appended to a custom
// catalog in the user's config directory and registered with the in-memory
// Library so they are playable without a restart.
package catalog
