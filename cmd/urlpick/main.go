// Package main is the CLI entry point for urlpick.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urlpick/urlpick/internal/daemon"
	"github.com/urlpick/urlpick/internal/domain"
	"github.com/urlpick/urlpick/internal/infra"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "urlpick",
	Short: "Route URLs to a specific browser and profile",
	Long: `urlpick routes URLs to a configured browser and browser profile
instead of the operating system's default browser.

Individual rules bind one URL pattern to one profile. Groups bind a set
of patterns to one or more candidate profiles. Enabled groups always
take precedence over individual rules, and within each collection the
first match in stored order wins - reorder entries to prioritize.`,
	Version: Version,
}

var openCmd = &cobra.Command{
	Use:   "open <url>",
	Short: "Resolve a URL and launch the matching browser profile",
	Long: `Resolves the URL against the configured groups and rules and launches
the matching profile's browser. When the matching group asks for a
profile picker, the candidates are listed; pass --pick to choose one.
With no match, nothing is launched and the system default applies.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <url>",
	Short: "Show what would happen for a URL without launching anything",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the clipboard for URLs and log how they would route",
	Long: `Polls the clipboard and resolves every new URL it sees against the
configured collections. Matches are logged and recorded in history;
nothing is ever launched automatically.`,
	RunE: runWatch,
}

var browsersCmd = &cobra.Command{
	Use:   "browsers",
	Short: "List installed browsers and their profiles",
	RunE:  runBrowsers,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent launches and clipboard matches",
	RunE:  runHistory,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("urlpick %s (commit %s, built %s)\n", Version, Commit, BuildTime)
	},
}

var (
	flagDataDir      string
	flagVerbose      bool
	flagPick         int
	flagHistoryLimit int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (default: XDG data dir)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	openCmd.Flags().IntVar(&flagPick, "pick", 0, "1-based profile choice when the match requires a picker")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Maximum entries to show")

	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(browsersCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()
	url := args[0]

	m := app.resolver.Resolve(url, app.store.Groups(), app.store.Rules())
	if m == nil {
		fmt.Println("no match - the system default browser handles this URL")
		return nil
	}

	decision := app.selector.Select(m)
	switch decision.Kind {
	case domain.DecisionNone:
		fmt.Println("matched entry has no profiles - the system default browser handles this URL")
		return nil

	case domain.DecisionPicker:
		if flagPick < 1 || flagPick > len(decision.Candidates) {
			fmt.Println("multiple profiles match, re-run with --pick N:")
			for i, c := range decision.Candidates {
				fmt.Printf("  %d. %s\n", i+1, profileLabel(c))
			}
			return nil
		}
		chosen := decision.Candidates[flagPick-1]
		return app.launch(cmd.Context(), m, chosen, url)

	default:
		return app.launch(cmd.Context(), m, *decision.Plan, url)
	}
}

func runResolve(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()
	url := args[0]

	m := app.resolver.Resolve(url, app.store.Groups(), app.store.Rules())
	if m == nil {
		fmt.Println("no match")
		return nil
	}

	switch m.Source {
	case domain.SourceGroup:
		fmt.Printf("matched group: %s\n", m.Group.Name)
	case domain.SourceRule:
		fmt.Printf("matched rule: %s\n", m.Rule.Pattern)
	}

	decision := app.selector.Select(m)
	switch decision.Kind {
	case domain.DecisionNone:
		fmt.Println("no launch plan (no profiles)")
	case domain.DecisionPicker:
		fmt.Println("would show profile picker:")
		for i, c := range decision.Candidates {
			fmt.Printf("  %d. %s\n", i+1, profileLabel(c))
		}
	default:
		fmt.Printf("would launch: %s\n", profileLabel(*decision.Plan))
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	watcher := daemon.NewWatcher(
		daemon.DefaultWatcherConfig(),
		app.store,
		app.resolver,
		app.selector,
		infra.NewSystemClipboard(),
		app.history,
		app.logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func runBrowsers(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	profiles, err := infra.NewEnumerator(app.logger).Enumerate()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Println("no browsers found")
		return nil
	}
	for _, p := range profiles {
		fmt.Printf("%-16s %-20s %s\n", p.BrowserName, p.ProfileName, p.BrowserExecutablePath)
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	if app.history == nil {
		fmt.Println("history unavailable")
		return nil
	}
	records, err := app.history.Recent(flagHistoryLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no history")
		return nil
	}
	for _, rec := range records {
		fmt.Printf("%s  [%s]  %s\n",
			rec.LaunchedAt.Format("2006-01-02 15:04:05"), rec.SourceKind, rec.URL)
	}
	return nil
}

func (a *app) launch(ctx context.Context, m *domain.Match, profile domain.RuleProfile, url string) error {
	if err := a.launcher.Launch(ctx, profile, url); err != nil {
		return err
	}
	a.recordLaunch(m, profile, url)
	return nil
}

func (a *app) recordLaunch(m *domain.Match, profile domain.RuleProfile, url string) {
	if a.history == nil {
		return
	}
	rec := domain.LaunchRecord{
		URL:         url,
		SourceKind:  m.Source,
		BrowserPath: profile.BrowserExecutablePath,
		ProfilePath: profile.ProfilePath,
	}
	switch m.Source {
	case domain.SourceGroup:
		rec.SourceID = m.Group.ID
	case domain.SourceRule:
		rec.SourceID = m.Rule.ID
	}
	if err := a.history.Record(rec); err != nil {
		a.logger.Warn("failed to record launch", zap.Error(err))
	}
}

func profileLabel(p domain.RuleProfile) string {
	if p.CustomDisplayName != "" {
		return p.CustomDisplayName
	}
	if p.ProfileName != "" {
		return fmt.Sprintf("%s (%s)", p.BrowserName, p.ProfileName)
	}
	return p.BrowserName
}
