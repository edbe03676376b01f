// Package config defines and loads the application configuration from
// environment variables and an optional config file, with struct-level
// validation of the result.
package config
