package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"pet-health-chat/internal/domain/chat"
)

type chatReply struct {
	Message chat.MessageResponse `json:"message"`
}

func (a *app) chatCmd() *cobra.Command {
	var petID string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the veterinary assistant",
		Long: `Starts an interactive chat. With --pet the assistant knows the pet's
profile and medical history.

Commands inside the chat:
  /reset  start the conversation over (picks up profile changes)
  /quit   exit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runChat(cmd.Context(), petID)
		},
	}
	cmd.Flags().StringVar(&petID, "pet", "", "Pet id for a pet-specific conversation")
	return cmd
}

func (a *app) runChat(ctx context.Context, petID string) error {
	greeting, err := a.send(ctx, "", petID)
	if err != nil {
		return err
	}
	a.printAssistant(greeting)
	fmt.Fprintln(a.out, faint("Type /reset to start over, /quit to exit."))

	scanner := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, youPrompt("You: "))
		if !scanner.Scan() {
			fmt.Fprintln(a.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			path := "/chat/session"
			if petID != "" {
				path += "?petId=" + url.QueryEscape(petID)
			}
			if err := a.client.DoJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
				fmt.Fprintln(a.out, errorStyle.Render("Error: "+describe(err)))
				continue
			}
			fmt.Fprintln(a.out, faint("Conversation reset."))
			continue
		}

		reply, err := a.send(ctx, line, petID)
		if err != nil {
			// Un 429 o un 500 no cortan la sesión interactiva.
			fmt.Fprintln(a.out, errorStyle.Render("Error: "+describe(err)))
			continue
		}
		a.printAssistant(reply)
	}
}

func (a *app) send(ctx context.Context, message, petID string) (string, error) {
	body := map[string]any{"message": message}
	if petID != "" {
		body["petId"] = petID
	}
	var out chatReply
	if err := a.client.DoJSON(ctx, http.MethodPost, "/chat", body, &out); err != nil {
		return "", err
	}
	return out.Message.Content, nil
}

func (a *app) printAssistant(text string) {
	fmt.Fprintln(a.out, assistantName("Assistant: ")+text)
	fmt.Fprintln(a.out)
}
