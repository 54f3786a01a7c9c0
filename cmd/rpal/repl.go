package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"nickandperla.net/rpal/pkg/rpal"
)

func printBanner() {
	fmt.Println("rpal REPL (Ctrl+D to exit)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  :ast <expr>   print the parse tree of an expression")
	fmt.Println("  :st <expr>    print the standardized tree of an expression")
	fmt.Println("  :quit         exit")
	fmt.Println()
}

func runREPL(runtime *rpal.Runtime) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	// Seed the editor history from the persistent store, oldest first.
	if h := runtime.History(); h != nil {
		if entries, err := h.Recent(100); err == nil {
			for i := len(entries) - 1; i >= 0; i-- {
				line.AppendHistory(entries[i].Source)
			}
		}
	}

	printBanner()

	for {
		input, err := line.Prompt("rpal> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch {
		case input == ":quit":
			return

		case strings.HasPrefix(input, ":ast "):
			tree, err := runtime.ParseTree(strings.TrimPrefix(input, ":ast "))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			fmt.Print(tree)

		case strings.HasPrefix(input, ":st "):
			tree, err := runtime.StandardTree(strings.TrimPrefix(input, ":st "))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			fmt.Print(tree)

		default:
			output, err := runtime.Eval(input)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			if output != "" {
				fmt.Print(output)
				if !strings.HasSuffix(output, "\n") {
					fmt.Println()
				}
			}
		}
	}
}
