// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/bettercopy/pkg/config"
	"github.com/walteh/bettercopy/pkg/log"
	"github.com/walteh/bettercopy/pkg/operation"
	"github.com/walteh/bettercopy/pkg/pattern"
	"github.com/walteh/bettercopy/pkg/status"
	"github.com/walteh/bettercopy/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

var errIncomplete = errors.New("copy finished with problems")

// rootOpts holds the parsed flags for one invocation
type rootOpts struct {
	ignoreFile     string
	includeFile    string
	useGitignore   bool
	maxDepth       int
	followSymlinks bool
	allowEmpty     bool
	dryRun         bool
	jobs           int
	verbose        int
	quiet          bool
	configFile     string
	debug          bool

	stderr io.Writer
}

func newRootCmd(o *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bettercopy [flags] <src> <dst>",
		Short: "Copy a directory tree, leaving out what your ignore file names",
		Long: `bettercopy recursively copies <src> to <dst>, which must not exist yet.

Entries matching a pattern in the ignore file (default <src>/.bcignore) are
left out together with everything beneath them. Use -t to print the tree
that would be copied without touching <dst>.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args[0], args[1])
		},
	}

	def := config.Default()
	flags := cmd.Flags()
	flags.StringVar(&o.ignoreFile, "ignore-file", def.IgnoreFile, "ignore pattern file, relative to <src> unless absolute")
	flags.StringVar(&o.includeFile, "include-file", def.IncludeFile, "include pattern file, relative to <src> unless absolute")
	flags.BoolVarP(&o.useGitignore, "use-gitignore", "g", def.UseGitignore, "read ignore patterns from <src>/.gitignore")
	flags.IntVarP(&o.maxDepth, "max-depth", "d", def.MaxDepth, "deepest directory level to copy, -1 for unlimited")
	flags.BoolVarP(&o.followSymlinks, "follow-symlinks", "l", def.FollowSymlinks, "copy symlink targets instead of the links")
	flags.BoolVarP(&o.allowEmpty, "allow-empty", "e", def.AllowEmpty, "allow <dst> to be an existing empty directory")
	flags.BoolVarP(&o.dryRun, "testing", "t", false, "print the tree that would be copied and exit")
	flags.IntVarP(&o.jobs, "jobs", "j", def.Jobs, "parallel file copies, 0 for one per CPU")
	flags.IntVarP(&o.verbose, "verbose", "v", def.Verbosity, "verbosity 0..3 (errors, warnings, info)")
	flags.BoolVarP(&o.quiet, "quiet", "q", false, "print nothing (verbosity 0)")
	flags.StringVarP(&o.configFile, "config", "c", "", "yaml, hcl or json file with default settings")
	flags.BoolVar(&o.debug, "debug", false, "enable debug logging on stderr")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	return cmd
}

// applyConfig fills every flag the user did not set from the config file
func (o *rootOpts) applyConfig(ctx context.Context, cmd *cobra.Command) error {
	if o.configFile == "" {
		return nil
	}
	cfg, err := config.Load(ctx, o.configFile)
	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if !changed("ignore-file") {
		o.ignoreFile = cfg.IgnoreFile
	}
	if !changed("include-file") {
		o.includeFile = cfg.IncludeFile
	}
	if !changed("use-gitignore") {
		o.useGitignore = cfg.UseGitignore
	}
	if !changed("max-depth") {
		o.maxDepth = cfg.MaxDepth
	}
	if !changed("follow-symlinks") {
		o.followSymlinks = cfg.FollowSymlinks
	}
	if !changed("allow-empty") {
		o.allowEmpty = cfg.AllowEmpty
	}
	if !changed("jobs") {
		o.jobs = cfg.Jobs
	}
	if !changed("verbose") && !changed("quiet") {
		o.verbose = cfg.Verbosity
	}
	return nil
}

func (o *rootOpts) validate() error {
	if o.quiet {
		o.verbose = int(log.VerbosityQuiet)
	}
	if !log.Verbosity(o.verbose).Valid() {
		return errors.Errorf("%w: verbosity must be between 0 and 3, got %d", config.ErrInvalid, o.verbose)
	}
	if o.jobs < 0 {
		return errors.Errorf("%w: jobs must not be negative, got %d", config.ErrInvalid, o.jobs)
	}
	if o.maxDepth < tree.Unlimited {
		return errors.Errorf("%w: max depth must be -1 (unlimited) or more, got %d", config.ErrInvalid, o.maxDepth)
	}
	return nil
}

func (o *rootOpts) zerologger() zerolog.Logger {
	if !o.debug {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: o.stderr}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()
}

func (o *rootOpts) run(cmd *cobra.Command, src, dst string) error {
	ctx := cmd.Context()
	zlog := o.zerologger()
	ctx = zlog.WithContext(ctx)

	if err := o.applyConfig(ctx, cmd); err != nil {
		return err
	}
	if err := o.validate(); err != nil {
		return err
	}

	logger := log.New(cmd.OutOrStdout(), log.Verbosity(o.verbose), zlog)
	ctx = log.NewContext(ctx, logger)

	matcher, err := o.matcher(ctx, src)
	if err != nil {
		return err
	}

	if o.dryRun {
		logger.Header("dry run")
		if logger.Verbosity() < log.VerbosityInfo {
			logger.Warning("dry run: use -v 3 to also see the resolved paths and pattern files")
		}
	}
	logger.Infof("source: %s", src)
	if !o.dryRun {
		logger.Infof("destination: %s", dst)
	}

	runner := operation.NewRunner(operation.Input{
		Source:             src,
		Destination:        dst,
		Matcher:            matcher,
		MaxDepth:           o.maxDepth,
		FollowSymlinks:     o.followSymlinks,
		AllowExistingEmpty: o.allowEmpty,
		DryRun:             o.dryRun,
		Workers:            o.jobs,
		Output:             cmd.OutOrStdout(),
	})

	report, err := runner.Run(ctx)
	if report != nil {
		o.summarize(ctx, report)
	}
	if err != nil {
		return err
	}
	if !report.OK() {
		return errIncomplete
	}

	if !o.dryRun {
		logger.Successf("copied %s to %s", src, dst)
	}
	return nil
}

// matcher loads the ignore and include pattern files for src
func (o *rootOpts) matcher(ctx context.Context, src string) (*pattern.Matcher, error) {
	logger := log.FromContext(ctx)

	ignoreName, ignoreDefault := o.ignoreFile, config.DefaultIgnoreFile
	if o.useGitignore {
		ignoreName, ignoreDefault = config.GitignoreFile, config.GitignoreFile
	}

	excludes, err := loadPatterns(ctx, src, ignoreName, ignoreDefault, pattern.KindExclude, logger)
	if err != nil {
		return nil, err
	}
	includes, err := loadPatterns(ctx, src, o.includeFile, config.DefaultIncludeFile, pattern.KindInclude, logger)
	if err != nil {
		return nil, err
	}

	m := pattern.New(excludes, includes)
	if m.Empty() {
		logger.Warning("no ignore or include patterns found, copying everything")
	}
	return m, nil
}

// loadPatterns reads one pattern file. A missing file is only an error when
// the user named it; the default file is optional.
func loadPatterns(ctx context.Context, src, name, defaultName string, kind pattern.Kind, logger *log.Logger) ([]pattern.Pattern, error) {
	if name == "" {
		return nil, nil
	}
	filename := name
	if !filepath.IsAbs(filename) {
		filename = filepath.Join(src, filename)
	}

	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) && name == defaultName {
		zerolog.Ctx(ctx).Debug().Str("file", filename).Stringer("kind", kind).Msg("no pattern file")
		return nil, nil
	}

	patterns, err := pattern.LoadFile(ctx, filename, kind, logger)
	if err != nil {
		return nil, err
	}
	logger.Infof("%s patterns: %s (%d)", kind, filename, len(patterns))
	return patterns, nil
}

// summarize prints every problem whatever the verbosity, then the per-kind
// table at info level
func (o *rootOpts) summarize(ctx context.Context, report *status.Report) {
	logger := log.FromContext(ctx)

	problems := report.Problems()
	if len(problems) > 0 {
		logger.Print("\nproblems:")
		for _, p := range problems {
			logger.Print(p)
		}
	}
	if report.Cancelled() {
		logger.Errorf("copy cancelled with %d steps pending; the destination holds a partial tree", len(report.Pending()))
	}

	if o.dryRun || logger.Verbosity() < log.VerbosityInfo {
		return
	}
	table, err := report.Table()
	if err != nil {
		logger.Zerolog().Debug().Err(err).Msg("skipping summary table")
		return
	}
	logger.Print("\n" + table)
}
