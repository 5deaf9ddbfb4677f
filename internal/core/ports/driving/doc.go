// Package driving provides interfaces for application entry points
// (primary/inbound ports) used by the CLI and other consumers.
package driving
