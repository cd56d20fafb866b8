// Package config loads, normalizes, and validates vidchat configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML or YAML files, loads a local .env file, and honours
// environment fallbacks such as GOOGLE_API_KEY. The resulting Config is built
// once at startup and passed down explicitly to every component.
package config
