package cli

import "flag"

const defaultConfigPath = "./data/config/benchlens.toml"

type cliOptions struct {
	configPath   string
	first        int
	last         int
	parseTarget  string
	once         bool
	watch        bool
	ui           bool
	history      bool
	historyLimit int
	verbose      bool
	version      bool
	args         []string
}

func parseOptions(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("benchlens", flag.ContinueOnError)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.IntVar(&opts.first, "first", -1, "Index of the first benchmark to parse (overrides config)")
	fs.IntVar(&opts.last, "last", -1, "Index of the last benchmark to parse, inclusive (overrides config)")
	fs.StringVar(&opts.parseTarget, "parse", "", "Parse one method given as <file.java>:<method>, print its metrics as JSON, and exit")
	fs.BoolVar(&opts.once, "once", false, "Run a single batch and exit (the default; rejects -watch and -ui)")
	fs.BoolVar(&opts.watch, "watch", false, "Keep running and re-parse when benchmark sources change")
	fs.BoolVar(&opts.ui, "ui", false, "Enable terminal UI mode (implies -watch)")
	fs.BoolVar(&opts.history, "history", false, "Print recent batch runs and exit")
	fs.IntVar(&opts.historyLimit, "history-limit", 0, "Number of runs listed by -history (0 uses the store default)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}
