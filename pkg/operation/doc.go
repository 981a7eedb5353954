/*
Package operation turns a built tree into filesystem changes, or into a
dry-run listing.

	+-------------+      +-------------+      +-------------+
	|    Tree     | ---> |    Plan     | ---> |   Copier    |
	| (pkg/tree)  |      | (pre-order) |      | (execute)   |
	+------+------+      +-------------+      +------+------+
	       |                                         |
	+------+------+                           +------+------+
	|   Render    |                           |   Report    |
	|  (dry-run)  |                           | (pkg/status)|
	+-------------+                           +-------------+

🎯 Purpose:
- Computes the complete copy plan before anything is written
- Creates directories in pre-order on a single dispatcher
- Copies files on a bounded worker pool once their directory exists
- Renders the same tree as an indented listing without touching disk

🔄 Runner states:

	Configured -> TreeBuilt -> PlanComputed -> Copying -> Done
	                        \-> Reporting ----------------> Done
	any state  -> Failed

⚡ Failure model:
- The destination must not exist (or must be an empty directory when
  AllowExistingEmpty is set); this is checked before the first write
- A failed file copy is recorded and the run continues
- A failed directory creation is fatal: its subtree cannot proceed, the
  remaining steps are reported as pending, finished siblings stay on disk
- Cancellation stops dispatch between steps; in-flight copies drain and
  the report lists exactly what completed

🔍 Example:

	tr, err := tree.NewBuilder(matcher, tree.Unlimited, logger).Build(ctx, src)
	plan, err := operation.BuildPlan(tr, dst)
	report, err := operation.NewCopier(operation.CopierOptions{Logger: logger}).Execute(ctx, plan)
*/
package operation
