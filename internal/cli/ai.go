package cli

import (
	"github.com/spf13/cobra"
)

var (
	level       string
	language    string
	errText     string
	description string
)

var explainCmd = &cobra.Command{
	Use:   "explain [file|-]",
	Short: "Explain a code snippet",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExplain,
}

var debugCmd = &cobra.Command{
	Use:   "debug [file|-]",
	Short: "Ask for help with an error in a code snippet",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDebug,
}

func init() {
	explainCmd.Flags().StringVar(&language, "language", "", "language of the snippet (guessed from the file name)")
	explainCmd.Flags().StringVar(&level, "level", "", "explanation level (defaults to your profile)")
	debugCmd.Flags().StringVar(&errText, "error", "", "error message")
	debugCmd.Flags().StringVar(&description, "description", "", "what you expected to happen")

	rootCmd.AddCommand(explainCmd, debugCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	code, err := readSource(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	lang := language
	if lang == "" && len(args) > 0 {
		lang = languageFromPath(args[0])
	}

	ctx := cmd.Context()
	c, err := newClient(ctx)
	if err != nil {
		return err
	}
	res := c.ExplainCode(ctx, code, lang, levelOrDefault(level, c.Session()))
	return show(cmd.OutOrStdout(), res, printText)
}

func runDebug(cmd *cobra.Command, args []string) error {
	code, err := readSource(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	c, err := newClient(ctx)
	if err != nil {
		return err
	}
	res := c.DebugCode(ctx, code, errText, description)
	return show(cmd.OutOrStdout(), res, printText)
}
