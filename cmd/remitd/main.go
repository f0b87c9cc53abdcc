package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/remit"
)

var (
	flagHome = "home"
	varHome  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".remitd")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")
}

func helpMessage() {
	fmt.Println("remitd")
	fmt.Println("        Remittance escrow")
	fmt.Println("")
	fmt.Println("help     Print this message")
	fmt.Println("init     Write the default configuration file")
	fmt.Println("genesis  Load a genesis file into a fresh state")
	fmt.Println("query    Print the records stored under a query path")
	fmt.Println("derive   Compute a package identifier")
	fmt.Println("version  Print the app version")
	fmt.Println("")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	var err error
	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = InitCmd(os.Stdout, *varHome, rest)
	case "genesis":
		err = GenesisCmd(os.Stdout, *varHome, rest)
	case "query":
		err = QueryCmd(os.Stdout, *varHome, rest)
	case "derive":
		err = DeriveCmd(os.Stdout, *varHome, rest)
	case "version":
		fmt.Println(remit.Version())
	default:
		fmt.Printf("Unknown command: %s\n", cmd)
		helpMessage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}
