package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/opusstream/cmd/opusstream/internal/config"
	"github.com/haivivi/opusstream/pkg/cli"
)

var profileFormat string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage named stream settings",
	Long: `Profiles are named stream settings stored in ~/.opusstream/config.yaml.

A profile file looks like:

  frame_size: 960
  channels: 1
  sample_rate: 16000
  application: VOIP
  bitrate: 24000
  fec: true
  framing: ogg`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, name := range cfg.ListProfiles() {
			marker := " "
			if name == cfg.CurrentProfile {
				marker = "*"
			}
			fmt.Fprintf(w, "%s %s\n", marker, name)
		}
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set <name> <file>",
	Short: "Create or replace a profile from a YAML or JSON file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p cli.Profile
		if err := cli.LoadFile(args[1], &p); err != nil {
			return err
		}
		s := config.Defaults()
		if err := s.ApplyProfile(&p); err != nil {
			return fmt.Errorf("profile %s: %w", args[0], err)
		}
		if err := s.Stream.Validate(); err != nil {
			return fmt.Errorf("profile %s: %w", args[0], err)
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.SetProfile(args[0], &p); err != nil {
			return err
		}
		cli.PrintSuccess("profile %s saved to %s", args[0], cfg.Path())
		return nil
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Make a profile the current one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.UseProfile(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("current profile is %s", args[0])
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.DeleteProfile(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("profile %s deleted", args[0])
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show the resolved settings of a profile",
	Long: `Show prints the settings encode and decode would use with the named
profile (default: current profile), including environment overrides.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			profileName = args[0]
		}
		s, err := resolveSettings(cmd.Context())
		if err != nil {
			return err
		}
		return cli.Output(s, cli.OutputOptions{
			Format: cli.OutputFormat(profileFormat),
			Writer: cmd.OutOrStdout(),
		})
	},
}

func init() {
	profileShowCmd.Flags().StringVar(&profileFormat, "format", "yaml", "output format: yaml or json")
	profileCmd.AddCommand(profileListCmd, profileSetCmd, profileUseCmd, profileDeleteCmd, profileShowCmd)
	rootCmd.AddCommand(profileCmd)
}
