package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/wippyai/il2cpp-runtime/metadata/snapshot"
	"github.com/wippyai/il2cpp-runtime/resolver"
	"github.com/wippyai/il2cpp-runtime/runtime"
)

type options struct {
	configFile  string
	library     string
	namesA      string
	namesB      string
	snapshot    string
	assembly    string
	namespace   string
	class       string
	method      string
	params      string
	returnType  string
	icall       string
	token       uint
	generic     bool
	images      bool
	verbose     bool
	interactive bool
}

func main() {
	var o options
	flag.StringVar(&o.configFile, "config", "", "Path to YAML config file")
	flag.StringVar(&o.library, "lib", "", "Native library path or base name")
	flag.StringVar(&o.namesA, "names-a", "", "Obfuscated export name list")
	flag.StringVar(&o.namesB, "names-b", "", "True export name list")
	flag.StringVar(&o.snapshot, "snapshot", "", "Inspect a YAML metadata snapshot instead of a library")
	flag.StringVar(&o.assembly, "assembly", "Assembly-CSharp", "Assembly the class is defined in")
	flag.StringVar(&o.namespace, "namespace", "", "Class namespace")
	flag.StringVar(&o.class, "class", "", "Class name")
	flag.StringVar(&o.method, "method", "", "Method name to resolve by signature")
	flag.StringVar(&o.params, "params", "", "Parameter types (comma-separated)")
	flag.StringVar(&o.returnType, "return", "System.Void", "Return type")
	flag.BoolVar(&o.generic, "generic", false, "Method is generic")
	flag.UintVar(&o.token, "token", 0, "Resolve a method by metadata token")
	flag.StringVar(&o.icall, "icall", "", "Resolve an intrinsic call signature")
	flag.BoolVar(&o.images, "images", false, "List registered images and exit")
	flag.BoolVar(&o.verbose, "v", false, "Debug logging")
	flag.BoolVar(&o.interactive, "i", false, "Interactive mode with TUI")
	flag.Parse()

	rt, err := open(o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	if err := rt.MissingExports(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n\n", err)
	}

	noQuery := !o.images && o.class == "" && o.icall == ""
	if o.interactive || noQuery && term.IsTerminal(int(os.Stdout.Fd())) {
		if err := runInteractive(rt.Resolver); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(os.Stdout, rt.Resolver, o); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func open(o options) (*runtime.Runtime, error) {
	if o.snapshot != "" {
		snap, err := snapshot.Load(o.snapshot)
		if err != nil {
			return nil, err
		}
		return runtime.New(snap), nil
	}

	var cfg runtime.Config
	if o.configFile != "" {
		var err error
		if cfg, err = runtime.LoadConfig(o.configFile); err != nil {
			return nil, err
		}
	}
	if o.library != "" {
		cfg.Library = o.library
	}
	if o.namesA != "" {
		cfg.Names.Obfuscated = o.namesA
	}
	if o.namesB != "" {
		cfg.Names.True = o.namesB
	}
	if o.verbose {
		cfg.LogLevel = "debug"
	}
	return runtime.Open(cfg)
}

func run(w io.Writer, r *resolver.Resolver, o options) error {
	if o.images {
		for _, row := range imageRows(r) {
			fmt.Fprintf(w, "%-40s %6d classes\n", row.name, row.classes)
		}
		return nil
	}

	if o.icall != "" {
		addr, ok := r.ICallAddress(o.icall)
		if !ok {
			return fmt.Errorf("icall %s not found", o.icall)
		}
		fmt.Fprintf(w, "%s = 0x%x\n", o.icall, addr)
		return nil
	}

	if o.class == "" {
		fmt.Fprintln(os.Stderr, "Usage: inspect [-config file | -snapshot file] -images")
		fmt.Fprintln(os.Stderr, "       inspect ... -class Name [-namespace Ns] [-method Name -params T1,T2 -return T | -token N]")
		fmt.Fprintln(os.Stderr, "       inspect ... -icall 'Type::method'")
		fmt.Fprintln(os.Stderr, "       inspect ... -i  (interactive mode)")
		return fmt.Errorf("nothing to inspect")
	}

	class := r.Class(o.assembly, o.namespace, o.class)
	if class.IsNull() {
		return fmt.Errorf("class %s not found in %s", qualified(o.namespace, o.class), o.assembly)
	}

	switch {
	case o.method != "":
		q := resolver.Query{
			Name:       o.method,
			ReturnType: o.returnType,
			Params:     splitParams(o.params),
			Generic:    o.generic,
		}
		printResult(w, r, q.String(), r.Method(class, q))
	case o.token != 0:
		printResult(w, r, fmt.Sprintf("token %d", o.token), r.MethodByToken(class, uint32(o.token)))
	default:
		fmt.Fprintf(w, "%s (%s)\n", qualified(o.namespace, o.class), o.assembly)
		if fields := fieldRows(r, class); len(fields) > 0 {
			fmt.Fprintf(w, "\nFields:\n  %s\n", strings.Join(fields, "\n  "))
		}
		fmt.Fprintf(w, "\nMethods:\n")
		for _, m := range methodRows(r, class) {
			fmt.Fprintf(w, "  %s\n", m.signature)
		}
	}
	return nil
}

func printResult(w io.Writer, r *resolver.Resolver, requested string, res resolver.MethodResult) {
	fmt.Fprintf(w, "Requested: %s\n", requested)
	fmt.Fprintf(w, "Outcome:   %s\n", res.Outcome)
	if res.Resolved() {
		fmt.Fprintf(w, "Method:    %s\n", r.Describe(res.Handle))
	} else {
		fmt.Fprintf(w, "Key:       %s\n", res.Key)
	}
}

func qualified(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}
