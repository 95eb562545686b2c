// Package server holds the MCP server runtime: the shared server
// context with per-account Google API clients, health check endpoints
// for Kubernetes probes, the dedicated Prometheus metrics server, and
// the streamable HTTP transport.
package server
