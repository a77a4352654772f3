package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vtcore/editor/picker"
	"golang.org/x/term"
)

func newFindCmd() *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Fuzzy-find a file under a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if root == "" {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				root = wd
			}
			return runFind(root, settings.PickerMaxDepth)
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "directory to search (default: current directory)")
	return cmd
}

// runFind drives the picker from raw keystrokes, printing the chosen path
// to stdout on Enter. Rendering the live result list is left to a caller
// with access to a real screen (see terminal.Screen); this CLI path only
// needs the final selection.
func runFind(root string, maxDepth int) error {
	svc, err := picker.NewService(root, maxDepth)
	if err != nil {
		return err
	}
	defer svc.Close()

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	restored := false
	restore := func() {
		if !restored {
			_ = term.Restore(fd, oldState)
			restored = true
		}
	}
	defer restore()

	var query []byte
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			return err
		}
		switch buf[0] {
		case '\r', '\n':
			restore()
			if selected, ok := svc.Selected(); ok {
				fmt.Println(selected.Entry.Path)
			}
			return nil
		case 3: // Ctrl-C
			return nil
		case 127, 8: // backspace
			if len(query) > 0 {
				query = query[:len(query)-1]
				svc.UpdateQuery(string(query))
			}
		case 14: // Ctrl-N
			svc.MoveSelection(1)
		case 16: // Ctrl-P
			svc.MoveSelection(-1)
		default:
			query = append(query, buf[0])
			svc.UpdateQuery(string(query))
		}
	}
}
