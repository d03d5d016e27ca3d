package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect and edit the learning profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the profile as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := engineForCmd(false)
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := e.store.Load(cmd.Context(), e.cfg.User.ID)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var profileGoalCmd = &cobra.Command{
	Use:   "set-goal <goal text>",
	Short: "Set the learning goal and re-infer missing skills",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := engineForCmd(false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		p, err := e.store.Load(ctx, e.cfg.User.ID)
		if err != nil {
			return err
		}

		e.editor.SetGoal(ctx, p, strings.Join(args, " "))
		if err := e.store.Save(ctx, p); err != nil {
			return err
		}

		fmt.Printf("Goal set. Inferred %d missing skill(s):\n", len(p.MissingSkills))
		for _, c := range p.MissingSkills {
			fmt.Printf("  - %s\n", c.PreferredLabel)
		}
		return nil
	},
}

var profileAddSkillCmd = &cobra.Command{
	Use:   "add-skill <skill phrase>",
	Short: "Add a known skill, grounded in the taxonomy",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := engineForCmd(false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		p, err := e.store.Load(ctx, e.cfg.User.ID)
		if err != nil {
			return err
		}

		concept := e.editor.AddSkill(ctx, p, strings.Join(args, " "))
		if err := e.store.Save(ctx, p); err != nil {
			return err
		}
		fmt.Printf("Added %s (%s)\n", concept.PreferredLabel, concept.ConceptURI)
		return nil
	},
}

var profileRemoveSkillCmd = &cobra.Command{
	Use:   "remove-skill <label>",
	Short: "Remove a skill from the known and missing lists",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := engineForCmd(false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		p, err := e.store.Load(ctx, e.cfg.User.ID)
		if err != nil {
			return err
		}

		label := strings.Join(args, " ")
		if !e.editor.RemoveSkill(p, label) {
			return fmt.Errorf("no skill named %q on the profile", label)
		}
		if err := e.store.Save(ctx, p); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", label)
		return nil
	},
}

var profileFromBioCmd = &cobra.Command{
	Use:   "from-bio [file]",
	Short: "Build the profile from a free-text bio (file argument or stdin)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var bio []byte
		var err error
		if len(args) == 1 {
			bio, err = os.ReadFile(args[0])
		} else {
			bio, err = os.ReadFile("/dev/stdin")
		}
		if err != nil {
			return fmt.Errorf("reading bio: %w", err)
		}

		e, err := engineForCmd(true)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		p, err := e.store.Load(ctx, e.cfg.User.ID)
		if err != nil {
			return err
		}
		if err := e.editor.BuildFromBio(ctx, p, string(bio)); err != nil {
			return err
		}
		if err := e.store.Save(ctx, p); err != nil {
			return err
		}

		fmt.Printf("Profile built: %d known skill(s), %d missing skill(s)\n",
			len(p.KnownSkills), len(p.MissingSkills))
		return nil
	},
}

var profileClearFeedbackCmd = &cobra.Command{
	Use:   "clear-feedback",
	Short: "Wipe the feedback log, lifting all course rejections",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := engineForCmd(false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		p, err := e.store.Load(ctx, e.cfg.User.ID)
		if err != nil {
			return err
		}
		n := e.editor.ClearFeedback(p)
		if err := e.store.Save(ctx, p); err != nil {
			return err
		}
		fmt.Printf("Cleared %d feedback entr(ies)\n", n)
		return nil
	},
}

// engineForCmd loads config and wires the engine for a profile-style command.
func engineForCmd(withLLM bool) (*engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return buildEngine(cfg, withLLM)
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileGoalCmd)
	profileCmd.AddCommand(profileAddSkillCmd)
	profileCmd.AddCommand(profileRemoveSkillCmd)
	profileCmd.AddCommand(profileFromBioCmd)
	profileCmd.AddCommand(profileClearFeedbackCmd)
	rootCmd.AddCommand(profileCmd)
}
