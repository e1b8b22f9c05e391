// Package config loads chatroutes settings from a YAML file, a .env file and
// the environment.
//
// Precedence, lowest first: defaults, config file, environment (including
// variables loaded from .env), explicit overrides such as CLI flags.
//
//	cfg, err := config.Load(config.WithConfigFile("chatroutes.yml"))
//
// Well-known variables (CHATROUTES_API_KEY, CHATROUTES_BASE_URL, ...) map to
// their settings directly. Any other CHATROUTES_<SECTION>_<KEY> variable is
// matched against the nested key section.key, e.g.
// CHATROUTES_OBSERVABILITY_SAMPLE_RATE sets observability.sample_rate.
package config
