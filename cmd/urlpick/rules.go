package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/urlpick/urlpick/internal/domain"
	"github.com/urlpick/urlpick/internal/infra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage individual URL rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rules in stored (priority) order",
	RunE:  runRulesList,
}

var rulesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a rule binding a pattern to a browser profile",
	Long: `Adds an individual rule. Either describe the target profile with the
--browser-* and --profile-* flags, or pick an installed profile by its
position in "urlpick browsers" output with --from-browser.`,
	RunE: runRulesAdd,
}

var rulesRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesRm,
}

var rulesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all rules",
	RunE:  runRulesClear,
}

var rulesEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable a rule",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setRuleEnabled(args[0], true) },
}

var rulesDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable a rule (it becomes invisible to resolution)",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setRuleEnabled(args[0], false) },
}

var rulesMvCmd = &cobra.Command{
	Use:   "mv <id> <index>",
	Short: "Move a rule to a new position (earlier entries win ties)",
	Args:  cobra.ExactArgs(2),
	RunE:  runRulesMv,
}

var (
	flagRulePattern     string
	flagRuleBrowserName string
	flagRuleBrowserPath string
	flagRuleBrowserType string
	flagRuleProfileName string
	flagRuleProfilePath string
	flagRuleProfileArgs string
	flagRuleFromBrowser int
)

func init() {
	rulesAddCmd.Flags().StringVar(&flagRulePattern, "pattern", "", "URL pattern, * matches any run of characters (required)")
	rulesAddCmd.Flags().StringVar(&flagRuleBrowserName, "browser-name", "", "Browser display name")
	rulesAddCmd.Flags().StringVar(&flagRuleBrowserPath, "browser-path", "", "Browser executable path")
	rulesAddCmd.Flags().StringVar(&flagRuleBrowserType, "browser-type", "other", "Browser family: chromium, firefox, edge, other")
	rulesAddCmd.Flags().StringVar(&flagRuleProfileName, "profile-name", "", "Profile display name")
	rulesAddCmd.Flags().StringVar(&flagRuleProfilePath, "profile-path", "", "Profile directory or identifier")
	rulesAddCmd.Flags().StringVar(&flagRuleProfileArgs, "profile-args", "", "Extra launch arguments")
	rulesAddCmd.Flags().IntVar(&flagRuleFromBrowser, "from-browser", 0, "1-based pick from 'urlpick browsers' output")

	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesAddCmd)
	rulesCmd.AddCommand(rulesRmCmd)
	rulesCmd.AddCommand(rulesClearCmd)
	rulesCmd.AddCommand(rulesEnableCmd)
	rulesCmd.AddCommand(rulesDisableCmd)
	rulesCmd.AddCommand(rulesMvCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRulesList(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	rules := app.store.Rules()
	if len(rules) == 0 {
		fmt.Println("no rules configured")
		return nil
	}
	for i, r := range rules {
		state := "enabled"
		if !r.IsEnabled {
			state = "disabled"
		}
		fmt.Printf("%2d. [%s] %-40s -> %s  (id %s)\n",
			i, state, r.Pattern, profileLabel(r.Profile), r.ID)
	}
	return nil
}

func runRulesAdd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	if flagRulePattern == "" {
		return fmt.Errorf("--pattern is required")
	}

	var profile domain.RuleProfile
	if flagRuleFromBrowser > 0 {
		candidates, err := infra.NewEnumerator(app.logger).Enumerate()
		if err != nil {
			return err
		}
		if flagRuleFromBrowser > len(candidates) {
			return fmt.Errorf("--from-browser %d out of range (%d profiles found)",
				flagRuleFromBrowser, len(candidates))
		}
		profile = candidates[flagRuleFromBrowser-1]
	} else {
		if flagRuleBrowserPath == "" {
			return fmt.Errorf("--browser-path is required (or use --from-browser)")
		}
		profile = domain.RuleProfile{
			BrowserName:           flagRuleBrowserName,
			BrowserExecutablePath: flagRuleBrowserPath,
			BrowserType:           domain.BrowserType(flagRuleBrowserType),
			ProfileName:           flagRuleProfileName,
			ProfilePath:           flagRuleProfilePath,
			ProfileArguments:      flagRuleProfileArgs,
		}
	}

	rule, err := app.store.AddRule(domain.URLRule{
		Pattern:   flagRulePattern,
		IsEnabled: true,
		Profile:   profile,
	})
	if err != nil {
		return err
	}
	fmt.Printf("added rule %s\n", rule.ID)
	return nil
}

func runRulesRm(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	status, err := app.store.DeleteRule(args[0])
	if err != nil {
		return err
	}
	fmt.Println(status)
	return nil
}

func runRulesClear(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	if err := app.store.ClearRules(); err != nil {
		return err
	}
	fmt.Println("all rules removed")
	return nil
}

func setRuleEnabled(id string, enabled bool) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	status, err := app.store.SetRuleEnabled(id, enabled)
	if err != nil {
		return err
	}
	fmt.Println(status)
	return nil
}

func runRulesMv(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	var index int
	if _, err := fmt.Sscanf(args[1], "%d", &index); err != nil {
		return fmt.Errorf("invalid index %q", args[1])
	}
	status, err := app.store.MoveRule(args[0], index)
	if err != nil {
		return err
	}
	fmt.Println(status)
	return nil
}
