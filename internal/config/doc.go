// Package config manages regtree's user settings.
//
// Settings live in a YAML file under the platform configuration directory:
//   - Linux: $XDG_CONFIG_HOME/regtree/config.yaml or $HOME/.config/regtree/config.yaml
//   - macOS: $HOME/.config/regtree/config.yaml
//   - Windows: %LOCALAPPDATA%\regtree\config.yaml
//
// Only preferences are stored: the default definition file, the bus backend,
// logging and viewer options, and a short list of recently opened definition
// files. Register values are never persisted.
//
// # Example
//
//	version: 1
//	definitions: /home/me/boards/stm32f0.yaml
//	backend: remote
//	remote_url: ws://lab-pi.local:7420/ws
//	logging:
//	  level: debug
//	  file: /tmp/regtree.log
//	viewer:
//	  read_on_start: true
//	  read_after_write: true
//	discovery:
//	  timeout: 3
//
// # Thread Safety
//
// The global settings use sync.Once for lazy initialization. Saves are
// serialized by a mutex and written via a temporary file and rename.
package config
