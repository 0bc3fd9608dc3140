// Package config loads logtrail's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/logtrail/config.toml (default)
//  3. If the config file doesn't exist, fall back to built-in defaults
//  4. If the file exists but fields are missing or blank, use defaults
//
// Malformed values (unparseable durations, negative context) are errors
// rather than silent fallbacks.
//
// # Default Values
//
//   - poll_interval: 100ms (background polling while not tailing)
//   - tail_poll_interval: 50ms (polling while tailing)
//   - auto_scroll_throttle: 50ms (minimum gap between auto-scrolls)
//   - max_context_lines: 10
//   - initial_lines: 0 (load the whole file)
//   - stall_threshold: 20 consecutive failed polls
//   - watch: true (wake the poller on filesystem events)
//   - log_file: ~/.local/state/logtrail/logtrail.log
//   - log_level: info
//   - presets_path: ~/.config/logtrail/presets.toml
//
// # TOML Format
//
//	poll_interval = "100ms"
//	tail_poll_interval = "50ms"
//	auto_scroll_throttle = "50ms"
//	max_context_lines = 10
//	initial_lines = 5000
//	watch = true
//	log_file = "~/.local/state/logtrail/logtrail.log"
//	log_level = "debug"
//
// Durations use Go duration syntax. Tilde expansion is performed on paths.
package config
