package model

// Package model defines domain data structures used across the app: sound
// records, download tasks, their status enum, and the events a download
// worker reports back. Structures are designed for explicit state
// transitions driven by a single foreground owner.
