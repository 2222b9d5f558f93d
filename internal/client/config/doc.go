// Package config loads the storefront client configuration.
//
// Sources, later ones winning:
//
//  1. Defaults (LoadDefaults).
//  2. A JSON file named by -c or -config.
//  3. Flags -a (server URL), -d (session database) and -t (request timeout).
package config
