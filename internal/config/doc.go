// Package config loads statview's configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use $XDG_CONFIG_HOME/statview/config.toml
//  3. If the file doesn't exist, fall back to Default()
//  4. Environment variables override whatever the file set
//
// # TOML Format
//
//	api_base_url = "https://www.statista.com/api/v2/statistics"
//	static_url = "https://cdn.statcdn.com/static/application/search_results.json"
//	api_key = ""
//	page_size = 10
//	request_timeout = "10s"
//	requests_per_second = 5.0
//	stale_time = "0s"
//	cache_time = "5m"
//	gc_interval = "1m"
//	debounce = "300ms"
//	data_dir = "~/.local/share/statview"
//	log_dir = "~/.local/state/statview/logs"
//	log_level = "info"
//
// Every field is optional. Empty strings keep the default. A stale_time of
// zero means cached pages are only refetched after an explicit invalidation.
//
// # Environment
//
//   - STATISTA_API_KEY: API key sent with remote searches
//   - STATVIEW_API_BASE_URL: remote search endpoint
//   - STATVIEW_LOG_LEVEL: debug, info, warn or error
//   - STATVIEW_DATA_DIR: directory of the local storage database
//
// Call Validate after Load; it reports every invalid field in one error.
package config
