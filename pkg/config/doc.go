// Package config loads service configuration from defaults, an optional
// YAML file and CONTENTAPI_ environment variables, in that order of
// precedence. Nested keys use a double underscore in variable names:
// CONTENTAPI_SERVER__ADDR sets server.addr.
package config
