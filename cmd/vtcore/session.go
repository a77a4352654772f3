package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vtcore/editor/pkg/session"
	"golang.org/x/term"
)

func newSessionCmd() *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manage sessions",
	}

	sessionCmd.AddCommand(newSessionNewCmd())
	sessionCmd.AddCommand(newSessionLsCmd())
	sessionCmd.AddCommand(newSessionRmCmd())
	sessionCmd.AddCommand(newSessionAttachCmd())

	return sessionCmd
}

func newSessionNewCmd() *cobra.Command {
	var name, cwd string
	cmd := &cobra.Command{
		Use:   "new [command...]",
		Short: "Create and start a new session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := sessions.CreateSession(session.Config{
				Name:    name,
				Command: args,
				Cwd:     cwd,
				Width:   80,
				Height:  24,
			})
			if err != nil {
				return err
			}
			fmt.Println(sess.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "session name")
	cmd.Flags().StringVar(&cwd, "cwd", "", "working directory")
	return cmd
}

func newSessionLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := sessions.ListSessions()
			if err != nil {
				return err
			}
			for _, info := range list {
				fmt.Printf("%s\t%s\t%s\n", info.ID, info.Name, info.Status)
			}
			return nil
		},
	}
}

func newSessionRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sessions.RemoveSession(args[0])
		},
	}
}

func newSessionAttachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attach <id>",
		Short: "Attach to a running session from this terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAttach(args[0])
		},
	}
}

func runAttach(id string) error {
	sess, err := sessions.FindSession(id)
	if err != nil {
		return err
	}

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to enter raw mode: %w", err)
		}
		defer term.Restore(fd, oldState)
	}

	defer registerOutputForwarder(sess.ID, os.Stdout)()

	reader := bufio.NewReader(os.Stdin)
	buf := make([]byte, 4096)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			if werr := sess.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func registerOutputForwarder(sessionID string, w io.Writer) func() {
	sessions.RegisterDirectOutputCallback(sessionID, func(_ string, data []byte) {
		_, _ = w.Write(data)
	})
	return func() {
		sessions.UnregisterDirectOutputCallback(sessionID, nil)
	}
}
