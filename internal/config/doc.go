// Package config handles configuration loading for the notebook.
//
// # Overview
//
// Configuration is loaded from YAML (default) or TOML (.toml extension) files with
// environment variable expansion. Missing keys keep the values from Default().
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from NOTEBOOK_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/notebook/config.yaml
//  3. ~/.config/notebook/config.yaml
//
// # Environment Variable Expansion
//
//	storage:
//	  data_dir: "${HOME}/notebook-data"
//
// # Configuration Sections
//
// Storage:
//
//	storage:
//	  data_dir: ""                      # empty: probe <app>/data, then ~/Documents/<fallback>
//	  fallback_dir_name: "Notebook"
//	  database_file: "notebook.sqlite3"
//	  seed_path: ""                     # bundled database copied on first run
//
// Notes:
//
//	notes:
//	  max_text_length: 20
//	  default_tab_name: "Notes"
//	  date_layout: "02.01.2006"
//
// Documents:
//
//	documents:
//	  default_name_prefix: "Document"
//
// Status messages:
//
//	status:
//	  duration: "1600ms"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
