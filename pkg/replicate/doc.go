/*
Package replicate mirrors a directory tree from a source path into a
destination path.

	+-----------+        +------------+        +-------------+
	|  Request  | -----> | Replicator | -----> |   Outcome   |
	| src → dst |        |  (walker)  |        | copied/fail |
	+-----------+        +------------+        +-------------+

🎯 Purpose:
- Copy every file under a source directory into a destination directory
- Preserve relative paths exactly
- Overwrite existing files (replace, never merge)

🔄 Flow:
1. Validate the request (source exists, destination not nested in source)
2. Create the destination root
3. Walk the source depth-first in lexicographic order
4. Create each directory before any file inside it is copied
5. Copy files through a temp file + rename so no truncated file is left behind

⚠️ Errors:
Fatal problems (missing source, nested destination, uncreatable destination)
are returned as the error value. Anything that goes wrong on a single entry is
recorded in the Outcome and the walk keeps going.

⚡ Concurrency:
A Replicator holds no mutable state, so one value can serve concurrent calls
as long as their destinations do not overlap. Overlapping destinations must be
serialized by the caller.
*/
package replicate
