package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/kinoshelf/prefs"
)

var profileFlags prefs.Profile

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change the user profile",
	RunE:  runProfileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields; flags that are not given keep their value",
	RunE:  runProfileSet,
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSetCmd)

	profileSetCmd.Flags().StringVar(&profileFlags.FullName, "name", "", "full name")
	profileSetCmd.Flags().StringVar(&profileFlags.AvatarURI, "avatar", "", "avatar image URI")
	profileSetCmd.Flags().StringVar(&profileFlags.ResumeURL, "resume", "", "resume URL")
	profileSetCmd.Flags().StringVar(&profileFlags.Position, "position", "", "position or job title")
}

func openProfile() (*prefs.ProfileStore, error) {
	store, err := prefs.NewProfileStore(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile: %w", err)
	}
	return store, nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	store, err := openProfile()
	if err != nil {
		return err
	}
	p, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}

	out := cmd.OutOrStdout()
	if p.IsEmpty() {
		fmt.Fprintln(out, "Profile is empty, use 'profile set' to fill it in")
		return nil
	}
	fmt.Fprintf(out, "Name:     %s\n", p.FullName)
	fmt.Fprintf(out, "Position: %s\n", p.Position)
	fmt.Fprintf(out, "Avatar:   %s\n", p.AvatarURI)
	fmt.Fprintf(out, "Resume:   %s\n", p.ResumeURL)
	return nil
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	store, err := openProfile()
	if err != nil {
		return err
	}
	p, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		p.FullName = profileFlags.FullName
	}
	if flags.Changed("avatar") {
		p.AvatarURI = profileFlags.AvatarURI
	}
	if flags.Changed("resume") {
		p.ResumeURL = profileFlags.ResumeURL
	}
	if flags.Changed("position") {
		p.Position = profileFlags.Position
	}

	if err := store.Save(p); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return runProfileShow(cmd, args)
}
