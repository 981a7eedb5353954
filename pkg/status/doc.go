/*
Package status records what a copy run did, step by step.

	+-------------+        +-------------+
	|   Copier    | -----> |   Report    |
	| (operation) | Track  |  (status)   |
	+-------------+        +------+------+
	                              |
	                    +---------+---------+
	                    |                   |
	              +-----+-----+       +-----+-----+
	              |  Entries  |       |   Table   |
	              | (callers) |       |  (pterm)  |
	              +-----------+       +-----------+

🎯 Purpose:
- Tracks the outcome of every planned step: completed, failed or pending
- Carries the entries the tree builder had to skip
- Remembers whether the run was cancelled or hit a fatal error

📝 Notes:
A Report is safe for concurrent use; file copies running on the worker pool
track their outcome directly. Entries are kept in completion order, so a
caller inspecting a cancelled run sees exactly which steps landed on disk.
Nothing is rolled back: a partial destination is left for the caller to
inspect or remove.

The final summary lists every skipped or failed item regardless of the
console verbosity, so automation can rely on it.
*/
package status
