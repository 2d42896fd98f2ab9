package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/snipvault/internal/app"
	"github.com/dshills/snipvault/internal/config"
	"github.com/dshills/snipvault/internal/logging"
	"github.com/dshills/snipvault/internal/match"
)

// cli holds flag values and the App built from them.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	configPath  string
	file        string
	lang        string
	onDuplicate string
	logLevel    string
	pageSize    int
	noBody      bool
	print       bool

	app      *app.App
	closeLog func() error
}

func newCLI(stdout, stderr io.Writer) *cli {
	return &cli{stdout: stdout, stderr: stderr}
}

func (c *cli) root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snipvault [query]",
		Short: "Pick a snippet and copy it to the clipboard",
		Long: `snipvault filters your snippets as you type and copies the selected one
to the clipboard.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. config.toml in the config directory (or --config)
  3. .env next to the config file
  4. Environment variables
  5. Command line flags

Environment variables:
  SNIPVAULT_FILE            Snippet file (.yaml, .json or .toml)
  SNIPVAULT_ON_DUPLICATE    Duplicate names: reject, overwrite (default: reject)
  SNIPVAULT_SEED_DEFAULTS   Write starter snippets when the file is missing (default: true)
  SNIPVAULT_LANGUAGE        Only show snippets of this language
  SNIPVAULT_SEARCH_BODY     Match against snippet bodies (default: true)
  SNIPVAULT_CACHE_SIZE      Cached queries, 0 disables (default: 256)
  SNIPVAULT_PAGE_SIZE       Visible rows, 0 fits the terminal (default: 0)
  SNIPVAULT_LOG_LEVEL       debug, info, warn, error, disabled (default: info)
  SNIPVAULT_LOG_FORMAT      pretty, json (default: pretty)
  SNIPVAULT_LOG_FILE        Log file path

Keys:
  type to filter, Up/Down or Ctrl-P/Ctrl-N to move, PgUp/PgDn to page,
  Ctrl-U to clear, Enter to copy, Esc or Ctrl-C to quit.`,
		Args:               cobra.ArbitraryArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
		RunE:               c.runPick,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", "", "path to config file")
	pf.StringVarP(&c.file, "file", "f", "", "snippet file")
	pf.StringVarP(&c.lang, "lang", "l", "", "only use snippets of this language")
	pf.StringVar(&c.onDuplicate, "on-duplicate", "", "duplicate names: reject or overwrite")
	pf.BoolVar(&c.noBody, "no-body", false, "match names, tags and languages only")
	pf.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")

	cmd.Flags().BoolVarP(&c.print, "print", "p", false, "print the snippet to stdout instead of copying it")
	cmd.Flags().IntVar(&c.pageSize, "page-size", 0, "visible rows (0 fits the terminal)")

	cmd.AddCommand(c.listCmd())
	cmd.AddCommand(c.showCmd())
	cmd.AddCommand(c.languagesCmd())
	cmd.AddCommand(c.initCmd())
	cmd.AddCommand(versionCmd(c))

	return cmd
}

// setup resolves the configuration and builds the App.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.Load(config.Options{
		Path: c.configPath,
		// init creates the config file.
		AllowMissing: cmd.Name() == "init",
		Overrides:    c.overrides(cmd),
	})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.Logging())
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	c.closeLog = closeLog
	logger.Debug().Str("command", cmd.Name()).Str("snippets", cfg.Snippets.Path).Msg("starting")

	c.app = app.New(cfg, app.WithLogger(logger))
	return nil
}

func (c *cli) teardown(*cobra.Command, []string) error {
	if c.closeLog == nil {
		return nil
	}
	return c.closeLog()
}

// overrides collects the flags that were set explicitly.
func (c *cli) overrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	flags := cmd.Flags()
	if flags.Changed("file") {
		o.File = &c.file
	}
	if flags.Changed("lang") {
		o.Language = &c.lang
	}
	if flags.Changed("on-duplicate") {
		o.OnDuplicate = &c.onDuplicate
	}
	if flags.Changed("no-body") {
		body := !c.noBody
		o.SearchBody = &body
	}
	if flags.Changed("log-level") {
		o.LogLevel = &c.logLevel
	}
	if flags.Changed("page-size") {
		o.PageSize = &c.pageSize
	}
	return o
}

func (c *cli) runPick(cmd *cobra.Command, args []string) error {
	out, err := c.app.Pick(cmd.Context(), app.PickOptions{
		Query:  strings.Join(args, " "),
		Print:  c.print,
		Stdout: c.stdout,
	})
	if err != nil {
		return err
	}
	if !c.print && out.Snippet.Name != "" {
		color.New(color.FgGreen).Fprintf(c.stderr, "Copied %q to clipboard\n", out.Snippet.Name)
	}
	return nil
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [query]",
		Short: "List snippets ranked for a query",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := c.app.List(strings.Join(args, " "))
			if err != nil {
				return err
			}
			for _, r := range results {
				writeResult(c.stdout, r)
			}
			return nil
		},
	}
}

// writeResult prints one listing line: the name with matches highlighted,
// then language and tags.
func writeResult(w io.Writer, r match.Result) {
	name := []rune(r.Snippet.Name)
	hit := color.New(color.FgYellow, color.Bold)

	var b strings.Builder
	pos := 0
	for _, sp := range r.Spans {
		b.WriteString(string(name[pos:sp.Start]))
		b.WriteString(hit.Sprint(string(name[sp.Start:sp.End])))
		pos = sp.End
	}
	b.WriteString(string(name[pos:]))

	if r.Snippet.Language != "" {
		b.WriteString(color.CyanString("  [%s]", r.Snippet.Language))
	}
	for _, tag := range r.Snippet.Tags {
		b.WriteString(color.HiBlackString(" #%s", tag))
	}
	fmt.Fprintln(w, b.String())
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print one snippet body verbatim",
		Long:  "Print one snippet body verbatim. The name is looked up in the whole file; --lang does not apply.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sn, err := c.app.Show(args[0])
			if err != nil {
				return err
			}
			_, err = io.WriteString(c.stdout, sn.Body)
			return err
		},
	}
}

func (c *cli) languagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List languages with their snippet counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			langs, err := c.app.Languages()
			if err != nil {
				return err
			}
			for _, l := range langs {
				name := l.Language
				if name == "" {
					name = "(none)"
				}
				fmt.Fprintf(c.stdout, "%-12s %d\n", name, l.Count)
			}
			return nil
		},
	}
}

func (c *cli) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the starter snippets and a config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			res, err := c.app.Init(path)
			if err != nil {
				return err
			}
			report(c.stdout, res.SnippetsPath, res.SnippetsWrote, fmt.Sprintf("%d starter snippets", res.SnippetEntries))
			report(c.stdout, res.ConfigPath, res.ConfigWrote, "config")
			return nil
		},
	}
}

func report(w io.Writer, path string, wrote bool, what string) {
	if wrote {
		color.New(color.FgGreen).Fprintf(w, "Wrote %s to %s\n", what, path)
		return
	}
	color.New(color.FgYellow).Fprintf(w, "Kept existing %s\n", path)
}
