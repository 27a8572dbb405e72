package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var chatSession string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Plan a trip interactively on the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initAssistant(ctx, "chat")
		if err != nil {
			return err
		}
		defer env.Close()

		id := chatSession
		if id == "" {
			id = uuid.NewString()
		}
		return runChat(ctx, env.Controller, id, os.Stdin, cmd.OutOrStdout())
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatSession, "session", "", "session id to resume (default: new session)")
	rootCmd.AddCommand(chatCmd)
}

// runChat reads one message per line until EOF or "/quit". "/reset" starts
// the session over.
func runChat(ctx context.Context, svc chatService, id string, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Session %s. Tell me about your trip (/reset to start over, /quit to leave).\n", id)

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			if err := svc.Reset(ctx, id); err != nil {
				fmt.Fprintln(out, "Could not reset the session right now.")
				continue
			}
			fmt.Fprintln(out, "Starting over. Where would you like to go?")
			continue
		}

		reply, err := svc.Handle(ctx, id, line)
		fmt.Fprintf(out, "\n%s\n\n", reply.Response)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
