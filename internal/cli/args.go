// Package cli parses the harvest command line into a run configuration.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/markdave123-py/tokenharvest/internal/core"
)

// State is where the parser stopped.
type State int

const (
	StateScanning State = iota
	StateHelp
	StateReady
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateHelp:
		return "help"
	case StateReady:
		return "ready"
	case StateRejected:
		return "rejected"
	default:
		return "scanning"
	}
}

const flagMarker = "-"

type flagKind int

const (
	flagFile flagKind = iota
	flagPartOfSpeech
	flagLanguage
	flagScrape
	flagAccuracy
	flagOutput
)

type flagSpec struct {
	name  string
	arity int
	usage string
}

var flagSpecs = [...]flagSpec{
	flagFile:         {name: "-f", arity: 1, usage: "-f <file>          read the text from a file (or s3://bucket/key)"},
	flagPartOfSpeech: {name: "-p", arity: 1, usage: "-p <pos>           part-of-speech to list (default: proper noun)"},
	flagLanguage:     {name: "-l", arity: 1, usage: "-l <lang>          language of the text (default: english)"},
	flagScrape:       {name: "-web", arity: 2, usage: "-web <url> <file>  scrape a page, save its text to file and read it"},
	flagAccuracy:     {name: "-acc", arity: 0, usage: "-acc               use the high-accuracy model"},
	flagOutput:       {name: "-o", arity: 1, usage: "-o <file>          also write the tokens to a file (or s3://bucket/key)"},
}

var flagKinds = func() map[string]flagKind {
	m := make(map[string]flagKind, len(flagSpecs))
	for k, spec := range flagSpecs {
		m[spec.name] = flagKind(k)
	}
	return m
}()

// Result is the outcome of a parse. Config holds everything accepted before
// the parse stopped; on rejection nothing after the failing flag was applied.
type Result struct {
	State    State
	Config   *core.RunConfig
	Warnings []string
}

// Parse runs the flag state machine over args (without the program name).
// An empty list yields StateHelp. Any rejection stops the parse immediately
// and is returned as an error wrapping core.ErrParse.
func Parse(args []string) (*Result, error) {
	res := &Result{State: StateScanning, Config: core.DefaultRunConfig()}
	if len(args) == 0 {
		res.State = StateHelp
		return res, nil
	}

	seen := make(map[flagKind]bool)
	for len(args) > 0 {
		head := args[0]
		if !strings.HasPrefix(head, flagMarker) {
			res.Warnings = append(res.Warnings, acceptLiteral(res.Config, args)...)
			break
		}

		kind, ok := flagKinds[head]
		if !ok {
			res.State = StateRejected
			return res, fmt.Errorf("%w: unrecognized flag %q", core.ErrParse, head)
		}
		if seen[kind] {
			res.State = StateRejected
			return res, fmt.Errorf("%w: flag %q given more than once", core.ErrParse, head)
		}

		tail, err := apply(kind, args[1:], res.Config)
		if err != nil {
			res.State = StateRejected
			return res, err
		}
		seen[kind] = true
		args = tail
	}

	res.State = StateReady
	return res, nil
}

// apply handles one flag. On success it returns the tail with the flag's
// arguments consumed; on rejection the tail is returned unchanged and cfg is
// left untouched.
func apply(kind flagKind, tail []string, cfg *core.RunConfig) ([]string, error) {
	spec := flagSpecs[kind]
	if len(tail) < spec.arity {
		return tail, fmt.Errorf("%w: flag %q expects %d argument(s)", core.ErrParse, spec.name, spec.arity)
	}

	switch kind {
	case flagFile:
		if cfg.SourceKind == core.SourceScrape {
			return tail, fmt.Errorf("%w: %q cannot be combined with %q", core.ErrParse, spec.name, flagSpecs[flagScrape].name)
		}
		cfg.SourcePath = tail[0]
		cfg.SourceKind = core.SourceFile
	case flagPartOfSpeech:
		tag, err := core.ResolveTag(tail[0])
		if err != nil {
			return tail, err
		}
		cfg.Tag = tag
	case flagLanguage:
		lang, err := core.ResolveLanguage(tail[0])
		if err != nil {
			return tail, err
		}
		cfg.Language = lang
	case flagScrape:
		if cfg.SourceKind == core.SourceFile {
			return tail, fmt.Errorf("%w: %q cannot be combined with %q: a file source is already set", core.ErrParse, spec.name, flagSpecs[flagFile].name)
		}
		cfg.ScrapeURL = tail[0]
		cfg.SourcePath = tail[1]
		cfg.SourceKind = core.SourceScrape
	case flagAccuracy:
		cfg.Tier = core.TierAccurate
	case flagOutput:
		cfg.OutputPath = tail[0]
	}
	return tail[spec.arity:], nil
}

// acceptLiteral treats args[0] as the text to analyze. The literal consumes
// the rest of the list. It is dropped when a source flag came first.
func acceptLiteral(cfg *core.RunConfig, args []string) []string {
	if cfg.SourceKind != core.SourceNone {
		return []string{fmt.Sprintf("a %s source is already set; ignoring text %q", cfg.SourceKind, args[0])}
	}
	cfg.Text = args[0]
	cfg.SourceKind = core.SourceLiteral
	if len(args) > 1 {
		return []string{fmt.Sprintf("ignoring %d argument(s) after the text; quote the text to pass it as one argument", len(args)-1)}
	}
	return nil
}

// Usage writes the command help.
func Usage(w io.Writer, program string) {
	fmt.Fprintf(w, "Usage: %s [flags] [\"text\"]\n\n", program)
	fmt.Fprintln(w, "Lists the tokens of one part-of-speech found in the text, a file or a web page.")
	fmt.Fprintln(w, "\nFlags:")
	for _, spec := range flagSpecs {
		fmt.Fprintln(w, "  "+spec.usage)
	}
	fmt.Fprintln(w, "\nA flag may be given once; -f and -web are mutually exclusive.")
}
