// Package config loads process settings from the environment.
//
// It wraps github.com/joho/godotenv (optional .env files) and
// github.com/caarlos0/env/v11 (struct tags). Each configuration type is
// parsed once and cached; ResetCache forces a reparse, which tests use.
//
//	var s config.Settings
//	if err := config.Load(&s); err != nil {
//		return err
//	}
//	name := s.LocaleName() // LC_ALL, then LC_CTYPE, then LANG
package config
