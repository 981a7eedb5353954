/*
Package config loads persistent defaults for bettercopy from a file.

	            +-------------+
	            |   Config    |
	            | (defaults)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   YAML    | |   HCL   | |   JSON    |
	|  Parser   | | Parser  | |  Parser   |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Picks a parser by file extension through the registry
- Decodes on top of Default(), so a partial file only changes what it names
- Rejects unknown keys and out of range values (ErrInvalid)

🔄 Flow:
1. The CLI loads the file named by --config
2. Every flag the user did not set explicitly takes the file's value
3. The merged values become an operation.Input

📝 Example:

	ignore_file: .bcignore
	include_file: .bcinclude
	use_gitignore: false
	max_depth: -1      # unlimited
	follow_symlinks: false
	allow_empty: false
	verbosity: 1
	jobs: 0            # GOMAXPROCS

HCL files may reference the environment:

	ignore_file = "${env.HOME}/.bcignore"
*/
package config
