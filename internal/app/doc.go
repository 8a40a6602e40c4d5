// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the render batch lifecycle: loading the
// catalog, expanding it, driving the renderer and reporting the outcome,
// decoupled from any specific entrypoint like a CLI.
package app
