/*
Package config loads and saves the sharedplugins settings.

	            +-------------+
	            |  Settings   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Hold the central (shared) directory and the plugins directory
- Hold selection patterns and replication knobs
- Load once at startup, then pass around as a plain value

🔄 Flow:
1. Read the file, pick a decoder from the extension
2. Decode with unknown fields rejected
3. Validate: clean paths, fill defaults, check patterns

📝 The central directory is stored as the user typed it. CentralRoot appends
the shared subdirectory ("SharedPlugins" unless configured) so every machine
writes to the same folder inside it.
*/
package config
