package emu

// Core identification reported to the frontend.
const (
	Name    = "emgg"
	Version = "0.1.0"
)
