/*
Package share copies selected plugins into the central directory.

	+----------+     +---------+     +------------+     +----------+
	|  plugin  | --> |  share  | --> | replicate  | --> | Reporter |
	|  (scan)  |     | (runner)|     | (per tree) |     | (status) |
	+----------+     +---------+     +------------+     +----------+

🎯 Purpose:
- Turn a list of plugin descriptors into one replication per plugin
- Run them off the caller's goroutine, a few at a time
- Report progress and a final summary without ever dropping a failure

⚡ Concurrency:
Plugins are grouped by destination. Each group runs sequentially on one
worker so two plugins that land in the same folder never race; distinct
groups run in parallel up to the configured limit.
*/
package share
