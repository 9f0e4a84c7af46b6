package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/urlpick/urlpick/internal/domain"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Manage URL groups",
	Long: `Groups bind a set of URL patterns to one or more candidate profiles.
Enabled groups always take precedence over individual rules. Deleting a
built-in group disables it; it reappears disabled on the next run.`,
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups in stored (priority) order",
	RunE:  runGroupsList,
}

var groupsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a group",
	RunE:  runGroupsAdd,
}

var groupsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a group (built-ins are disabled instead)",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsRm,
}

var groupsEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable a group",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setGroupEnabled(args[0], true) },
}

var groupsDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable a group (it becomes invisible to resolution)",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setGroupEnabled(args[0], false) },
}

var groupsMvCmd = &cobra.Command{
	Use:   "mv <id> <index>",
	Short: "Move a group to a new position (earlier entries win ties)",
	Args:  cobra.ExactArgs(2),
	RunE:  runGroupsMv,
}

var groupsAddProfileCmd = &cobra.Command{
	Use:   "add-profile <group-id>",
	Short: "Add a candidate profile to a group",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsAddProfile,
}

var groupsRmProfileCmd = &cobra.Command{
	Use:   "rm-profile <group-id> <profile-id>",
	Short: "Remove a candidate profile from a group",
	Args:  cobra.ExactArgs(2),
	RunE:  runGroupsRmProfile,
}

var groupsAdoptCmd = &cobra.Command{
	Use:   "adopt <rule-id> <group-id>",
	Short: "Move a rule's pattern into a group",
	Long: `Adds the rule's pattern to the group, then deletes the rule. The two
steps are not transactional: if the deletion fails the pattern exists
in both places, which is valid and resolved by store order.`,
	Args: cobra.ExactArgs(2),
	RunE: runGroupsAdopt,
}

var (
	flagGroupName        string
	flagGroupDescription string
	flagGroupPatterns    []string
	flagGroupBehavior    string

	flagGroupBrowserName string
	flagGroupBrowserPath string
	flagGroupBrowserType string
	flagGroupProfileName string
	flagGroupProfilePath string
	flagGroupProfileArgs string
)

func init() {
	groupsAddCmd.Flags().StringVar(&flagGroupName, "name", "", "Group name (required)")
	groupsAddCmd.Flags().StringVar(&flagGroupDescription, "description", "", "Group description")
	groupsAddCmd.Flags().StringArrayVar(&flagGroupPatterns, "pattern", nil, "URL pattern (repeatable)")
	groupsAddCmd.Flags().StringVar(&flagGroupBehavior, "behavior", string(domain.UseDefault),
		"UseDefault or ShowProfilePicker")

	groupsAddProfileCmd.Flags().StringVar(&flagGroupBrowserName, "browser-name", "", "Browser display name")
	groupsAddProfileCmd.Flags().StringVar(&flagGroupBrowserPath, "browser-path", "", "Browser executable path (required)")
	groupsAddProfileCmd.Flags().StringVar(&flagGroupBrowserType, "browser-type", "other", "Browser family: chromium, firefox, edge, other")
	groupsAddProfileCmd.Flags().StringVar(&flagGroupProfileName, "profile-name", "", "Profile display name")
	groupsAddProfileCmd.Flags().StringVar(&flagGroupProfilePath, "profile-path", "", "Profile directory or identifier")
	groupsAddProfileCmd.Flags().StringVar(&flagGroupProfileArgs, "profile-args", "", "Extra launch arguments")

	groupsCmd.AddCommand(groupsListCmd)
	groupsCmd.AddCommand(groupsAddCmd)
	groupsCmd.AddCommand(groupsRmCmd)
	groupsCmd.AddCommand(groupsEnableCmd)
	groupsCmd.AddCommand(groupsDisableCmd)
	groupsCmd.AddCommand(groupsMvCmd)
	groupsCmd.AddCommand(groupsAddProfileCmd)
	groupsCmd.AddCommand(groupsRmProfileCmd)
	groupsCmd.AddCommand(groupsAdoptCmd)
	rootCmd.AddCommand(groupsCmd)
}

func runGroupsList(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	groups := app.store.Groups()
	if len(groups) == 0 {
		fmt.Println("no groups configured")
		return nil
	}
	for i, g := range groups {
		state := "enabled"
		if !g.IsEnabled {
			state = "disabled"
		}
		builtIn := ""
		if g.IsBuiltIn {
			builtIn = " (built-in)"
		}
		fmt.Printf("%2d. [%s] %s%s  (id %s)\n", i, state, g.Name, builtIn, g.ID)
		fmt.Printf("      patterns: %s\n", strings.Join(g.URLPatterns, ", "))
		for _, p := range g.Profiles {
			fmt.Printf("      profile:  %s  (id %s)\n", profileLabel(p), p.ID)
		}
	}
	return nil
}

func runGroupsAdd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	if flagGroupName == "" {
		return fmt.Errorf("--name is required")
	}
	behavior := domain.GroupBehavior(flagGroupBehavior)
	if behavior != domain.UseDefault && behavior != domain.ShowProfilePicker {
		return fmt.Errorf("invalid --behavior %q", flagGroupBehavior)
	}

	group, err := app.store.AddGroup(domain.URLGroup{
		Name:        flagGroupName,
		Description: flagGroupDescription,
		URLPatterns: flagGroupPatterns,
		Behavior:    behavior,
		IsEnabled:   true,
	})
	if err != nil {
		return err
	}
	fmt.Printf("added group %s\n", group.ID)
	return nil
}

func runGroupsRm(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	status, err := app.store.DeleteGroup(args[0])
	if err != nil {
		return err
	}
	fmt.Println(status)
	return nil
}

func setGroupEnabled(id string, enabled bool) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	status, err := app.store.SetGroupEnabled(id, enabled)
	if err != nil {
		return err
	}
	fmt.Println(status)
	return nil
}

func runGroupsMv(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	var index int
	if _, err := fmt.Sscanf(args[1], "%d", &index); err != nil {
		return fmt.Errorf("invalid index %q", args[1])
	}
	status, err := app.store.MoveGroup(args[0], index)
	if err != nil {
		return err
	}
	fmt.Println(status)
	return nil
}

func runGroupsAddProfile(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	if flagGroupBrowserPath == "" {
		return fmt.Errorf("--browser-path is required")
	}
	status, err := app.store.AddProfileToGroup(args[0], domain.RuleProfile{
		BrowserName:           flagGroupBrowserName,
		BrowserExecutablePath: flagGroupBrowserPath,
		BrowserType:           domain.BrowserType(flagGroupBrowserType),
		ProfileName:           flagGroupProfileName,
		ProfilePath:           flagGroupProfilePath,
		ProfileArguments:      flagGroupProfileArgs,
	})
	if err != nil {
		return err
	}
	fmt.Println(status)
	return nil
}

func runGroupsRmProfile(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	status, err := app.store.RemoveProfileFromGroup(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Println(status)
	return nil
}

func runGroupsAdopt(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	status, err := app.store.MovePatternToGroup(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Println(status)
	return nil
}
