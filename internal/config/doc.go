// Package config loads ktnet settings from defaults, an optional YAML file,
// KTNET_* environment variables and command-line flags, in increasing order
// of precedence.
//
// The file is read from $KTNET_CONFIG when set, otherwise from
// ~/.config/ktnet/config.yml. A missing file is not an error:
//
//	portal:
//	  user_id: m1234567
//	  interval: 3s
//	download:
//	  dir: ~/Documents/handouts
//
// Nested keys map to environment variables by replacing dots with
// underscores, e.g. KTNET_PORTAL_PASSWORD.
package config
