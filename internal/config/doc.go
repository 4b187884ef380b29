// Package config handles loading and parsing the storefront configuration file.
//
// # Overview
//
// This package reads an optional TOML file to discover the remote API base
// URL, the catalog page size, and the local data directory. Everything has a
// default, so the client works out-of-the-box without any configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/storefront/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. STOREFRONT_* environment variables override whatever the file said
//
// # Default Values
//
//   - Config file: ~/.config/storefront/config.toml
//   - API base URL: https://api.escuelajs.co/api/v1
//   - Page size: 10
//   - Data directory: ~/.local/share/storefront
//   - Request timeout: 15 seconds
//
// # TOML Format
//
// Example config.toml:
//
//	api_base_url = "https://api.escuelajs.co/api/v1"
//	page_size = 20
//	data_dir = "~/.local/share/storefront"
//	request_timeout_seconds = 30
//
// All fields are optional. Tilde expansion is performed on data_dir.
//
// # Environment Overrides
//
// The following variables take precedence over the file when set and
// non-empty:
//
//   - STOREFRONT_API_BASE_URL
//   - STOREFRONT_PAGE_SIZE
//   - STOREFRONT_DATA_DIR
//
// A malformed STOREFRONT_PAGE_SIZE is ignored rather than treated as an
// error, so a broken environment never prevents startup.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//
// Missing config files are NOT an error - defaults are used instead.
//
// # Design Philosophy
//
// The config package is read-only and stateless - it loads configuration
// once at startup and returns an immutable Config struct. No global state
// or singleton patterns are used.
package config
