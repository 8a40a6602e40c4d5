package render

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/Frans-Willem/WadeHerringboneGears/internal/config"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/expand"
)

// Command is a fully resolved renderer invocation.
type Command struct {
	Program string
	Args    []string
}

// plainWord matches words a shell reads literally, so `-D key=value` pairs
// print without quotes.
var plainWord = regexp.MustCompile(`^[A-Za-z0-9_./=+:,@%-]+$`)

// String renders the command as a line that can be pasted into a POSIX
// shell.
func (c Command) String() string {
	words := make([]string, 0, len(c.Args)+1)
	for _, w := range append([]string{c.Program}, c.Args...) {
		words = append(words, quoteWord(w))
	}
	return strings.Join(words, " ")
}

func quoteWord(w string) string {
	if plainWord.MatchString(w) {
		return w
	}
	q, err := syntax.Quote(w, syntax.LangBash)
	if err != nil {
		return strconv.Quote(w)
	}
	return q
}

// OutputPath returns where the renderer writes cfg.
func OutputPath(r config.Renderer, cfg expand.Configuration) string {
	return filepath.Join(r.OutputDir, r.BaseName+cfg.Name())
}

// BuildCommand assembles
//
//	<program> -o <output_dir>/<base_name><name> [-D key=value]... <input>
//
// with the definitions in the configuration's parameter order.
func BuildCommand(r config.Renderer, cfg expand.Configuration) (Command, error) {
	defs, err := cfg.Params.Definitions()
	if err != nil {
		return Command{}, fmt.Errorf("failed to format parameters for %s: %w", cfg.Name(), err)
	}

	args := make([]string, 0, 2+2*len(defs)+1)
	args = append(args, "-o", OutputPath(r, cfg))
	for _, d := range defs {
		args = append(args, "-D", d)
	}
	args = append(args, r.Input)

	return Command{Program: r.Program, Args: args}, nil
}
