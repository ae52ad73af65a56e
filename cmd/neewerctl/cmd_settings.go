package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/neewerctl/neewerctl/pkg/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage persistent settings",
	Long: `Manage persistent settings stored in ~/.neewerctl/settings.json.

Settings provide defaults for context flags:
  - default_selector: Used when no selector argument is given
  - config_path:       Configuration document path

Examples:
  neewerctl settings show
  neewerctl settings set default_selector group:studio
  neewerctl settings set config_path /etc/neewerctl/lights.yaml
  neewerctl settings clear`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load()
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}

		fmt.Printf("Settings file: %s\n\n", settings.DefaultSettingsPath())

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SETTING\tVALUE")
		fmt.Fprintln(w, "-------\t-----")

		printSetting := func(name, value string) {
			if value == "" {
				value = "(not set)"
			}
			fmt.Fprintf(w, "%s\t%s\n", name, value)
		}

		printSetting("default_selector", s.DefaultSelector)
		printSetting("config_path", s.ConfigPath)
		printSetting("audit_log_path", s.AuditLogPath)
		if len(s.LastAddresses) > 0 {
			printSetting("last_addresses", fmt.Sprintf("%v", s.LastAddresses))
		}

		w.Flush()
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <setting> <value>",
	Short: "Set a setting value",
	Long: `Set a persistent setting value.

Available settings:
  default_selector   - Default fixture selector (-t flag default)
  config_path        - Configuration document path (-c flag default)
  audit_log_path     - Audit log file path
  execute_by_default - "true"/"false": stored only; serve always applies commands immediately`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		setting := args[0]
		value := args[1]

		s, err := settings.Load()
		if err != nil {
			s = &settings.Settings{}
		}

		switch setting {
		case "default_selector":
			s.DefaultSelector = value
			fmt.Printf("Default selector set to: %s\n", value)
		case "config_path":
			s.ConfigPath = value
			fmt.Printf("Configuration document path set to: %s\n", value)
		case "audit_log_path":
			s.AuditLogPath = value
			fmt.Printf("Audit log path set to: %s\n", value)
		case "execute_by_default":
			s.ExecuteByDefault = value == "true"
			fmt.Printf("Execute-by-default set to: %v\n", s.ExecuteByDefault)
		default:
			return fmt.Errorf("unknown setting: %s (valid: default_selector, config_path, audit_log_path, execute_by_default)", setting)
		}

		if err := s.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}

		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <setting>",
	Short: "Get a setting value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setting := args[0]

		s, err := settings.Load()
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}

		var value string
		switch setting {
		case "default_selector":
			value = s.DefaultSelector
		case "config_path":
			value = s.ConfigPath
		case "audit_log_path":
			value = s.AuditLogPath
		default:
			return fmt.Errorf("unknown setting: %s", setting)
		}

		if value == "" {
			fmt.Println("(not set)")
		} else {
			fmt.Println(value)
		}
		return nil
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := &settings.Settings{}
		if err := s.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Println("All settings cleared.")
		return nil
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show settings file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(settings.DefaultSettingsPath())
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsClearCmd)
	settingsCmd.AddCommand(settingsPathCmd)
}
