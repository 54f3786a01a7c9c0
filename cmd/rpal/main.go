// Command rpal is the RPAL interpreter CLI.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"nickandperla.net/rpal/pkg/rpal"
)

func main() {
	var (
		printAST = flag.Bool("ast", false, "Print the parse tree and exit")
		printST  = flag.Bool("st", false, "Print the standardized tree and exit")
		evalStr  = flag.String("e", "", "Evaluate an RPAL expression string")
		dbPath   = flag.String("db", "rpal.db", "SQLite history database path (REPL only)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: rpal [-ast] [-st] [-e expr] [file]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	// Pick the program source: -e, a file argument, or piped stdin.
	var source string
	switch {
	case *evalStr != "":
		source = *evalStr

	case flag.NArg() > 0:
		data, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "rpal: %v\n", err)
			os.Exit(1)
		}
		source = string(data)

	case !term.IsTerminal(int(os.Stdin.Fd())):
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rpal: %v\n", err)
			os.Exit(1)
		}
		source = string(data)

	default:
		// Interactive: run the REPL with persistent history.
		runtime := rpal.New(rpal.WithSQLiteHistory(*dbPath))
		defer runtime.Close()
		runREPL(runtime)
		return
	}

	runtime := rpal.New()
	defer runtime.Close()

	switch {
	case *printAST:
		tree, err := runtime.ParseTree(source)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Print(tree)

	case *printST:
		tree, err := runtime.StandardTree(source)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Print(tree)

	default:
		output, err := runtime.Eval(source)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Print(output)
		if output != "" && !strings.HasSuffix(output, "\n") {
			fmt.Println()
		}
	}
}
