package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/squeegee/internal/assistant"
	"github.com/Veraticus/squeegee/internal/cli"
	"github.com/Veraticus/squeegee/internal/service"
	"github.com/spf13/cobra"
)

const chatHelp = `Type a message to talk to the assistant, or:
  /services                 list bookable services
  /search <name>            find clients by name
  /pick <n>                 show jobs for result n of the last search
  /calendar <start> <end>   jobs between two YYYY-MM-DD dates
  /reset                    start a new conversation
  exit                      quit`

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the scheduling assistant in the terminal",
		RunE:  runChat,
	}

	cmd.Flags().Bool("intents", false, "show the intent extracted from each message")
	cmd.Flags().Bool("no-store", false, "chat without opening the record store")

	return cmd
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	showIntents, _ := cmd.Flags().GetBool("intents")
	noStore, _ := cmd.Flags().GetBool("no-store")

	var store service.Storage
	if !noStore {
		s, err := initStorage(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		store = s
	}

	agent, err := initAgent(store)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle("Scheduling assistant"))
	fmt.Fprintln(out, cli.SubtleStyle.Render(chatHelp))

	reader := cli.NewLineReader(cmd.InOrStdin())
	var selection assistant.Selection

	for {
		fmt.Fprint(out, "\n"+cli.FormatPrompt("you"))
		line, err := reader.ReadLine(ctx)
		if errors.Is(err, io.EOF) || errors.Is(err, cli.ErrInputCancelled) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}

		switch {
		case line == "":
			continue
		case strings.EqualFold(line, "exit"):
			return nil
		case strings.HasPrefix(line, "/"):
			if err := runChatCommand(cmd, agent, &selection, line); err != nil {
				fmt.Fprintln(out, cli.FormatError(err.Error()))
			}
			continue
		}

		if showIntents {
			intent := agent.ExtractIntent(ctx, line)
			fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("intent: %s %v", intent.Kind, intent.Entities)))
		}

		reply, err := agent.Chat(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintln(out, cli.FormatError(err.Error()))
			continue
		}
		fmt.Fprintln(out, cli.FormatReply(reply))
	}
}

func runChatCommand(cmd *cobra.Command, agent *assistant.Agent, selection *assistant.Selection, line string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	fields := strings.Fields(line)

	switch fields[0] {
	case "/help":
		fmt.Fprintln(out, chatHelp)
	case "/reset":
		agent.Reset()
		fmt.Fprintln(out, cli.FormatSuccess("Conversation cleared"))
	case "/services":
		services, err := agent.Services(ctx)
		if err != nil {
			return err
		}
		for _, s := range services {
			fmt.Fprintf(out, "  %-28s $%s  %d min\n", s.Name, s.Price.StringFixed(2), s.DurationMinutes)
		}
	case "/search":
		if len(fields) < 2 {
			return errors.New("usage: /search <name>")
		}
		clients, err := agent.SearchClients(ctx, strings.Join(fields[1:], " "))
		if err != nil {
			return err
		}
		selection.Remember(clients)
		if len(clients) == 0 {
			fmt.Fprintln(out, cli.FormatInfo("No matching clients"))
		}
		for i, c := range clients {
			fmt.Fprintf(out, "  %d. %s %s\n", i+1, c.Name, cli.SubtleStyle.Render(c.Email))
		}
	case "/pick":
		if len(fields) != 2 {
			return errors.New("usage: /pick <n>")
		}
		client, ok := selection.Pick(fields[1])
		if !ok {
			return errors.New("no such search result")
		}
		schedules, err := agent.ClientSchedules(ctx, client.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%s has %d job(s)", client.Name, len(schedules))))
		for _, s := range schedules {
			fmt.Fprintf(out, "  %s  %-24s %s\n", s.ServiceDate, s.ServiceName, s.Status)
		}
	case "/calendar":
		if len(fields) != 3 {
			return errors.New("usage: /calendar <start> <end>")
		}
		events, err := agent.Calendar(ctx, fields[1], fields[2])
		if err != nil {
			return err
		}
		for _, e := range events {
			fmt.Fprintf(out, "  %-16s %s (%s)\n", e.Start, e.Title, e.Status)
		}
	default:
		return fmt.Errorf("unknown command %s, try /help", fields[0])
	}
	return nil
}
