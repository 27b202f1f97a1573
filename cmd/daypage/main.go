// Package main provides the CLI entrypoint for daypage.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"daypage/internal/archive"
	"daypage/internal/config"
	"daypage/internal/pages"
	"daypage/internal/session"
	"daypage/internal/surface"
	"daypage/internal/tui"
)

const (
	sparkWindowDays     = 30
	minSparkDays        = 7
	terminalWidthBackup = 80
)

const (
	colorReset = "\x1b[0m"
	colorGreen = "\x1b[32m"
)

var (
	writeTarget   int
	writeInterval int
	writeDir      string

	listTarget int
	listLast   int
	listDir    string

	pathDir string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "daypage",
		Short:         "Daily free-writing pages in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runWriteCmd,
	}

	rootCmd.Flags().IntVar(&writeTarget, "target", config.DefaultTarget, "daily word target")
	rootCmd.Flags().IntVar(&writeInterval, "interval", config.DefaultIntervalSeconds, "status refresh interval in seconds")
	rootCmd.Flags().StringVar(&writeDir, "dir", "", "pages directory (default: from config)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newPathCmd())

	return rootCmd
}

func runWriteCmd(cmd *cobra.Command, _ []string) error {
	configPath := config.DefaultConfigPath()
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "dir", &writeDir, fileCfg.Pages.Dir)
	applyIntConfig(cmd, "target", &writeTarget, fileCfg.Pages.Target)
	applyIntConfig(cmd, "interval", &writeInterval, fileCfg.Pages.IntervalSeconds)

	settings := config.Settings{
		Dir:             config.ExpandPath(writeDir),
		Target:          writeTarget,
		IntervalSeconds: writeInterval,
	}
	if err := validateSettings(settings); err != nil {
		return err
	}

	clock := session.SystemClock{}
	var page pages.Page
	if settings.Dir != "" {
		page, err = pages.LoadDay(settings.Dir, clock.Now())
		if err != nil {
			return fmt.Errorf("failed to load today's page: %w", err)
		}
	}

	board := surface.NewBoard()
	registry := session.NewRegistry(board, clock)
	defer registry.Shutdown()

	model := tui.NewModel(settings, configPath, page, registry, board, clock)
	program := tea.NewProgram(model, tea.WithAltScreen())
	model.SetProgram(program)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Render(config.FileConfig{})), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		logErrf("Wrote starter config %s\n", path)
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the page archive",
		Args:  cobra.NoArgs,
		RunE:  runListCmd,
	}
	cmd.Flags().IntVar(&listTarget, "target", config.DefaultTarget, "daily word target")
	cmd.Flags().IntVar(&listLast, "last", 0, "limit the table to the last N pages")
	cmd.Flags().StringVar(&listDir, "dir", "", "pages directory (default: from config)")
	return cmd
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "dir", &listDir, fileCfg.Pages.Dir)
	applyIntConfig(cmd, "target", &listTarget, fileCfg.Pages.Target)
	if listTarget <= 0 {
		return fmt.Errorf("--target must be > 0")
	}
	if listLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	dir := config.ExpandPath(listDir)
	if dir == "" {
		return pagesDirError()
	}

	entries, err := archive.Scan(dir)
	if err != nil {
		return fmt.Errorf("failed to scan pages: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		if _, err := fmt.Fprintln(out, "No pages yet. Run: daypage"); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	tableEntries := entries
	if listLast > 0 && len(tableEntries) > listLast {
		tableEntries = tableEntries[len(tableEntries)-listLast:]
	}
	useColor := shouldUseColor(out)
	for _, line := range archive.RenderTable(tableEntries, listTarget) {
		if useColor && strings.HasSuffix(line, "met") {
			line = colorGreen + line + colorReset
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	today := time.Now()
	streak := formatStreak(archive.Streak(entries, today))
	if _, err := fmt.Fprintf(out, "\nStreak: %s   Total: %d words\n", streak, archive.TotalWords(entries)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	days := sparkDaysFor(terminalWidth())
	spark := archive.Sparkline(archive.RecentCounts(entries, today, days))
	if _, err := fmt.Fprintf(out, "Last %d days: %s\n", days, spark); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print today's page path",
		Args:  cobra.NoArgs,
		RunE:  runPathCmd,
	}
	cmd.Flags().StringVar(&pathDir, "dir", "", "pages directory (default: from config)")
	return cmd
}

func runPathCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "dir", &pathDir, fileCfg.Pages.Dir)
	dir := config.ExpandPath(pathDir)
	if dir == "" {
		return pagesDirError()
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), pages.PathFor(dir, time.Now())); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func validateSettings(s config.Settings) error {
	if s.Target <= 0 {
		return fmt.Errorf("--target must be > 0")
	}
	if s.IntervalSeconds <= 0 {
		return fmt.Errorf("--interval must be > 0")
	}
	return nil
}

func pagesDirError() error {
	lines := []string{
		"no pages directory configured",
		"Run: daypage (the first run asks where pages should live)",
		fmt.Sprintf("Or set pages.dir in %s", config.DefaultConfigPath()),
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func formatStreak(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// sparkDaysFor clamps the sparkline window to the available width.
func sparkDaysFor(totalWidth int) int {
	days := sparkWindowDays
	avail := totalWidth - len("Last 30 days: ")
	if avail < days {
		days = avail
	}
	if days < minSparkDays {
		days = minSparkDays
	}
	return days
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
