package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ztaylor/codehl/internal/config"
	"github.com/ztaylor/codehl/internal/filter"
	"github.com/ztaylor/codehl/internal/highlight"
	"github.com/ztaylor/codehl/internal/logger"
	"github.com/ztaylor/codehl/internal/markdown"
	"github.com/ztaylor/codehl/internal/theme"
)

const version = "codehl v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run dispatches on args. With no arguments it is the stdin/stdout filter,
// which always exits 0.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	args, configPath := extractFlag(args, "--config")

	cfg, cfgErr := config.Load(configPath)
	if err := logger.Init(cfg.Logging.Path, cfg.Logging.Debug); err != nil && len(args) > 0 {
		fmt.Fprintf(stderr, "Warning: could not init logger: %v\n", err)
	}
	defer logger.Close()

	if cfgErr != nil {
		logger.Error("config load failed, using defaults", "error", cfgErr)
		if len(args) > 0 {
			fmt.Fprintf(stderr, "Warning: %v\n", cfgErr)
		}
	}

	if len(args) == 0 {
		runFilter(ctx, cfg, stdin, stdout)
		return 0
	}

	switch args[0] {
	case "render":
		rest, themeName := extractFlag(args[1:], "--theme")
		if len(rest) != 1 {
			fmt.Fprintln(stderr, "Usage: codehl render [--theme <name>] <file.md>")
			return 1
		}
		if err := renderFile(ctx, cfg, rest[0], themeName, stdout); err != nil {
			fmt.Fprintf(stderr, "Render error: %v\n", err)
			return 1
		}
	case "css":
		themeName := ""
		if len(args) > 1 {
			themeName = args[1]
		}
		if err := newEngine(cfg).WriteCSS(stdout, themeOrDefault(themeName, cfg)); err != nil {
			fmt.Fprintf(stderr, "CSS error: %v\n", err)
			return 1
		}
	case "--list-themes":
		listThemes(cfg, stdout)
	case "--list-languages":
		for _, name := range highlight.Languages() {
			fmt.Fprintln(stdout, name)
		}
	case "write-config":
		path := ""
		if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
			path = args[1]
		}
		written, err := config.WriteDefault(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error writing config: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Default configuration written to: %s\n", written)
	case "--help", "-h", "help":
		printHelp(stdout)
	case "--version", "-v", "version":
		fmt.Fprintln(stdout, version)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printHelp(stderr)
		return 1
	}
	return 0
}

func runFilter(ctx context.Context, cfg *config.Config, stdin io.Reader, stdout io.Writer) {
	f := newFilter(cfg)
	if err := f.Run(ctx, stdin, stdout); err != nil {
		logger.Error("failed to write output", "error", err)
	}
}

func renderFile(ctx context.Context, cfg *config.Config, path, themeName string, stdout io.Writer) error {
	r := markdown.NewRenderer(newFilter(cfg), themeOrDefault(themeName, cfg))

	doc, err := r.RenderFile(ctx, path)
	if err != nil {
		return err
	}
	logger.Info("rendered", "path", path, "title", doc.Title)

	_, err = io.WriteString(stdout, doc.HTML)
	return err
}

func newEngine(cfg *config.Config) *highlight.Highlighter {
	return highlight.New(
		highlight.WithDefaultTheme(cfg.DefaultTheme),
		highlight.WithClasses(cfg.HTML.WithClasses),
		highlight.WithLineNumbers(cfg.HTML.LineNumbers),
		highlight.WithTabWidth(cfg.HTML.TabWidth),
		highlight.WithCacheSize(cfg.CacheSize),
	)
}

func newFilter(cfg *config.Config) *filter.Filter {
	return filter.New(newEngine(cfg),
		filter.WithDefaultLanguage(cfg.DefaultLanguage),
		filter.WithTimeout(cfg.Timeout()),
	)
}

func themeOrDefault(name string, cfg *config.Config) string {
	if name == "" {
		return cfg.DefaultTheme
	}
	return name
}

func listThemes(cfg *config.Config, w io.Writer) {
	fmt.Fprintln(w, "Available themes:")
	for _, name := range theme.Available() {
		line := "  " + theme.Swatch(name)
		if target := theme.AliasOf(name); target != "" {
			line += " -> " + target
		}
		if name == cfg.DefaultTheme {
			line += " (default)"
		}
		fmt.Fprintln(w, line)
	}
}

// extractFlag removes "name value" from args and returns the value.
func extractFlag(args []string, name string) ([]string, string) {
	var rest []string
	value := ""
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == name:
			if i+1 < len(args) {
				value = args[i+1]
				i++ // skip value
			}
		case strings.HasPrefix(args[i], name+"="):
			value = strings.TrimPrefix(args[i], name+"=")
		default:
			rest = append(rest, args[i])
		}
	}
	return rest, value
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `codehl - Syntax highlighting filter for site rendering

Usage:
  codehl                         Read {"code","lang","theme"} JSON on stdin,
                                 write highlighted HTML on stdout
  codehl render <file.md>        Render a markdown document to HTML
  codehl css [theme]             Print the stylesheet for class-based output
  codehl help                    Show this help

Flags:
  --config <path>      Config file (default: ~/.config/codehl/config.toml)
  --theme <name>       Code theme for render (default: from config)
  --list-themes        List available themes
  --list-languages     List available languages
  --version, -v        Print version

Config Commands:
  write-config                 Write default configuration to file
  write-config <path>          Write configuration to custom path

Filter mode never fails: when the request cannot be highlighted the raw
input is written back escaped inside <pre><code>. Set debug = true under
[logging] in the config to record why.
`)
}
