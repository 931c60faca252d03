package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/llwgen/llwgen/diag"
	"github.com/llwgen/llwgen/llw"
	"github.com/llwgen/llwgen/llw/sema"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/

// main() analyzes .llw grammar files and prints diagnostics plus a per-rule
// analysis report. With -i it starts an interactive session where grammars
// can be typed and analyzed on the fly, which is handy for experimenting
// with rule shapes and recovery sets.
func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	interactive := flag.Bool("i", false, "Interactive mode")
	fingerprint := flag.Bool("fingerprint", false, "Print the artifact fingerprint")
	maxErrors := flag.Int("max-errors", diag.DefaultMaxErrors, "Diagnostics cap")
	flag.Parse()
	tracing.Select("llwgen.llw").SetTraceLevel(tracing.TraceLevelFromString(*tlevel))
	tracing.Select("llwgen.sema").SetTraceLevel(tracing.TraceLevelFromString(*tlevel))
	if *interactive {
		repl(*maxErrors)
		return
	}
	if flag.NArg() == 0 {
		pterm.Error.Println("no grammar file given")
		os.Exit(1)
	}
	status := 0
	for _, path := range flag.Args() {
		text, err := ioutil.ReadFile(path)
		if err != nil {
			pterm.Error.Println(err.Error())
			status = 1
			continue
		}
		art, sink, err := sema.Process(path, string(text), *maxErrors)
		if err != nil {
			pterm.Error.Println(err.Error())
			status = 1
			continue
		}
		report(art, sink, *fingerprint)
		if sink.HasErrors() {
			status = 1
		}
	}
	os.Exit(status)
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func report(art *sema.Artifact, sink *diag.Sink, fingerprint bool) {
	for _, e := range sink.All() {
		if e.Severity == diag.Error {
			pterm.Error.Println(sink.Format(e))
		} else {
			pterm.Warning.Println(sink.Format(e))
		}
	}
	if sink.Truncated() {
		pterm.Warning.Println("too many diagnostics, output truncated")
	}
	for _, r := range art.Rules {
		pterm.Println(ruleLine(art, r))
	}
	if fingerprint {
		pterm.Info.Println(art.Fingerprint())
	}
}

func ruleLine(art *sema.Artifact, r sema.RuleInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s %-24s first=%s follow=%s recovery=%s",
		r.Name, r.Class, r.First.Format(art.TokenName),
		r.Follow.Format(art.TokenName), r.Recovery.Format(art.TokenName))
	for _, lv := range r.Ops {
		assoc := "left"
		if len(lv.Tokens) > 0 && art.RightAssoc(lv.Tokens[0]) {
			assoc = "right"
		}
		names := make([]string, len(lv.Tokens))
		for i, t := range lv.Tokens {
			names[i] = art.TokenName(t)
		}
		fmt.Fprintf(&b, " op[%d]=%s(%s)", lv.Level, strings.Join(names, "|"), assoc)
	}
	return b.String()
}

// repl reads one grammar per line and analyzes it. Items are separated by
// semicolons, so small grammars fit on a line.
func repl(maxErrors int) {
	pterm.Info.Println("llwgen interactive mode, quit with <ctrl>D")
	rl, err := readline.New("llw> ")
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(3)
	}
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		art, sink, err := sema.Process("<repl>", line, maxErrors)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		report(art, sink, false)
		if f, perr := llw.ParseString("<repl>", line, diag.NewSink("<repl>", line, maxErrors)); perr == nil {
			pterm.Println(llw.Print(f))
		}
	}
	println("Good bye!")
}
