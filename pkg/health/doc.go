// Package health runs named dependency checks in parallel and reports the
// aggregate state. The API serves the report from its readiness route.
package health
