// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of tuplespace.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// tuplespace-cli is a minimal REPL/one-shot client over RemoteSpace,
// filling the role the Rust crate's `examples/` programs played
// (spec.md §1 excludes those demo programs by name, not a CLI client).
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ClusterCockpit/tuplespace/internal/remote"
	"github.com/ClusterCockpit/tuplespace/internal/tuple"
	"github.com/ClusterCockpit/tuplespace/pkg/log"
)

func main() {
	var flagURI, flagCommand string
	var flagTimeout time.Duration
	flag.StringVar(&flagURI, "space", "", "Space to connect to, as `host:port/name`")
	flag.DurationVar(&flagTimeout, "timeout", 0, "Abort a blocking get/query after `duration` (0 = wait forever)")
	flag.StringVar(&flagCommand, "c", "", "Run a single `command` and exit, instead of starting a REPL")
	flag.Parse()

	if flagURI == "" {
		log.Fatal("CLI> -space host:port/name is required")
	}

	sp, err := remote.Dial(flagURI)
	if err != nil {
		log.Fatalf("CLI> connecting to %s: %s", flagURI, err.Error())
	}
	defer sp.Close()

	if flagCommand != "" {
		runLine(sp, flagCommand, flagTimeout)
		return
	}

	fmt.Printf("connected to %s. commands: put, get, getp, query, queryp, quit\n", flagURI)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		runLine(sp, line, flagTimeout)
	}
}

// runLine parses and executes one REPL command: a verb followed by a
// whitespace-separated sequence of "kind:value" literals (spec.md §8's
// textual tuple/template syntax, see internal/tuple/literal.go).
func runLine(sp *remote.RemoteSpace, line string, timeout time.Duration) {
	verb, rest, _ := strings.Cut(line, " ")

	ctx := context.Background()
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	switch verb {
	case "put":
		tup, err := tuple.ParseTuple(rest)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		if err := sp.Put(ctx, tup); err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println("ok")

	case "get", "getp", "query", "queryp":
		tmpl, err := tuple.ParseTemplate(rest)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		result, err := dispatch(ctx, sp, verb, tmpl)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("ok: %s\n", result)

	default:
		fmt.Printf("unknown command %q\n", verb)
	}
}

func dispatch(ctx context.Context, sp *remote.RemoteSpace, verb string, tmpl tuple.Template) (tuple.Tuple, error) {
	switch verb {
	case "get":
		return sp.Get(ctx, tmpl)
	case "getp":
		return sp.Getp(ctx, tmpl)
	case "query":
		return sp.Query(ctx, tmpl)
	default:
		return sp.Queryp(ctx, tmpl)
	}
}
