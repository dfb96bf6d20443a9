// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Each subsystem declares its own config struct with `env` tags and loads
// it independently, keeping configuration close to the code that consumes
// it instead of a single application-wide settings object.
package config
