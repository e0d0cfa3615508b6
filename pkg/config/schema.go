package config

// configSchema constrains .cue configuration files. Definitions are closed,
// so unknown fields are rejected.
const configSchema = `
#Config: {
	storage?: {
		prefix?:             string & !=""
		cookie_expire_days?: int & >0
		local?: {
			driver?:      "sqlite" | "memory" | "none"
			path?:        string
			max_entries?: int & >=0
		}
		cookies?: {
			jar?:  "file" | "memory"
			path?: string
		}
	}

	logging?: {
		level?:               "trace" | "debug" | "info" | "warn" | "error" | "fatal"
		format?:              "console" | "json"
		output?:              string
		enable_caller?:       bool
		enable_sampling?:     bool
		sampling_initial?:    int & >=0
		sampling_thereafter?: int & >=0
		time_format?:         "rfc3339" | "unix" | "unixms" | "unixmicro"
	}

	metrics?: {
		enabled?:                   bool
		listen_address?:            string
		path?:                      =~"^/"
		namespace?:                 =~"^[a-zA-Z_][a-zA-Z0-9_]*$"
		default_histogram_buckets?: [...number]
	}

	tracing?: {
		enabled?:               bool
		exporter?:              "otlp" | "stdout" | "none"
		endpoint?:              string
		sampling_rate?:         number & >=0 & <=1
		max_export_batch_size?: int & >0
		headers?: {[string]: string}
		insecure?: bool
	}
}
`
