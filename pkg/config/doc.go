// Package config loads the neat configuration file.
//
// Configuration is YAML by default:
//
//	storage:
//	  prefix: custom_
//	  cookie_expire_days: 3600
//	  local:
//	    driver: sqlite        # sqlite | memory | none
//	    path: ./neat.db
//	    max_entries: 0
//	  cookies:
//	    jar: file             # file | memory
//	    path: ./neat-cookies.yaml
//	logging:
//	  level: info
//	  format: console
//	metrics:
//	  enabled: false
//	  listen_address: ":9090"
//	tracing:
//	  enabled: false
//	  exporter: stdout
//
// Files with a .cue extension are unified with a closed CUE schema before
// decoding, so typos and out-of-range values fail with a CUE position.
// After decoding, every configuration is checked with validator struct tags.
package config
