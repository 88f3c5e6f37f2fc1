// Package config loads typed configuration structs from the process
// environment.
//
// A `.env` file in the working directory (or the file named by ENV_FILE) is
// read once before the first struct is parsed. Struct fields are bound with
// `env` and `envDefault` tags understood by github.com/caarlos0/env/v11.
// Each configuration type is parsed at most once per process; later calls
// return the cached copy.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
package config
