/*
Package config loads luaufmt settings from YAML, HCL or JSON.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	    +--------------+--------------+
	    |              |              |
	+---+----+     +---+----+    +----+---+
	|  YAML  |     |  HCL   |    |  JSON  |
	| Parser |     | Parser |    | Parser |
	+--------+     +--------+    +--------+

🎯 Purpose:
- Picks a parser by file extension
- Fills defaults for everything left out
- Rejects unknown keys and bad durations

🔄 Flow:
1. Load with an explicit path, or search DefaultPaths
2. Parse with the registered parser for the extension
3. Validate fills defaults and parses durations
4. Callers read typed values (ProbeTimeout, FrameInterval, ...)

No file at all is not an error: Default() is used instead.

🔍 Example (YAML):

	tool:
	  cache_dir: ~/.luau-format-gui
	  download_timeout: 2m
	editor:
	  watch_input: true
	options:
	  minify: true
	log:
	  level: debug
*/
package config
