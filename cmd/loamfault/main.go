// Loam fault cache CLI - inspect and prune cached fault reports
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	_ "github.com/tliron/commonlog/simple"

	"github.com/loamvm/loam/config"
	"github.com/loamvm/loam/faultdb"
	"github.com/loamvm/loam/portable"
)

func main() {
	dbPath := flag.String("db", "", "Fault cache path (default: from the nearest loam.toml)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: loamfault [options] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "Inspects the cache of portable fault reports.\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  keys          List cached definition keys\n")
		fmt.Fprintf(os.Stderr, "  show <key>    Print the fault cached under a key\n")
		fmt.Fprintf(os.Stderr, "  kind <kind>   List keys cached with the given fault kind\n")
		fmt.Fprintf(os.Stderr, "  rm <key>      Drop a cached fault\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  loamfault keys\n")
		fmt.Fprintf(os.Stderr, "  loamfault show 'demo::main'\n")
		fmt.Fprintf(os.Stderr, "  loamfault kind out-of-memory\n")
		fmt.Fprintf(os.Stderr, "  loamfault -db /tmp/faults.db rm 'demo::main'\n")
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	path := *dbPath
	if path == "" {
		path = discoverCachePath()
	}

	store, err := faultdb.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := run(store, os.Stdout, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// discoverCachePath finds the cache location from the nearest loam.toml,
// falling back to the default location in the current directory.
func discoverCachePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return config.Default().CachePath()
	}
	c, err := config.FindAndLoad(cwd)
	if err != nil || c == nil {
		return config.Default().CachePath()
	}
	return c.CachePath()
}

// run dispatches one command against an open store. CLI I/O stays in main
// so commands remain testable.
func run(store *faultdb.Store, out io.Writer, args []string) error {
	switch cmd := args[0]; cmd {
	case "keys":
		if len(args) != 1 {
			return fmt.Errorf("keys takes no arguments")
		}
		keys, err := store.Keys()
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Fprintln(out, k)
		}
		return nil

	case "show":
		if len(args) != 2 {
			return fmt.Errorf("show takes exactly one key")
		}
		f, err := store.Get(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s\n", f.Kind(), f.Description())
		return nil

	case "kind":
		if len(args) != 2 {
			return fmt.Errorf("kind takes exactly one fault kind")
		}
		keys, err := store.ByKind(portable.Kind(args[1]))
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Fprintln(out, k)
		}
		return nil

	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("rm takes exactly one key")
		}
		if err := store.Delete(args[1]); err != nil {
			return err
		}
		fmt.Fprintf(out, "removed: %s\n", args[1])
		return nil

	default:
		return fmt.Errorf("unknown command %q (try: keys, show, kind, rm)", cmd)
	}
}
