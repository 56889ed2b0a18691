package cli

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with Simon",
	Long: `Sends one message when given, otherwise reads messages from standard
input until "exit" or end of input.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if err := ready(); err != nil {
		return err
	}
	ctx := cmd.Context()

	if len(args) == 1 {
		return ask(cmd, args[0])
	}

	transcript := concierge.Transcript(ctx)
	renderMessage(cmd.OutOrStdout(), transcript[len(transcript)-1])

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		printf(cmd, "\nYou: ")
		if !scanner.Scan() {
			printf(cmd, "\n")
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		if err := ask(cmd, line); err != nil {
			return err
		}
	}
}

func ask(cmd *cobra.Command, text string) error {
	msg, err := concierge.Ask(cmd.Context(), text, nil)
	if err != nil {
		return err
	}
	renderMessage(cmd.OutOrStdout(), msg)
	return nil
}
