// ABOUTME: tag command annotates one HTML fragment from stdin for content tracking
// ABOUTME: Useful for pre-rendering static blocks and checking tracking names

package main

import (
	"fmt"
	"io"
	"os"

	"mai-analytics-api/core/tagging"
	"mai-analytics-api/infrastructure/logger/logrus"
)

// TagCmd tags a fragment read from stdin
type TagCmd struct {
	Name    string `short:"n" help:"Explicit tracking name"`
	Source  string `short:"s" help:"Content source the name is derived from" enum:"cca,ad,post-preview,tracker,menu,custom" default:"custom"`
	Value   string `help:"Title, slug or URL the name is derived from"`
	Verbose bool   `short:"v" help:"Log parse problems to stderr"`
}

// Run tags stdin and writes the result to stdout
func (c *TagCmd) Run(cli *CLI) error {
	level := "warn"
	if c.Verbose {
		level = "debug"
	}
	logger := logrus.NewWithWriter(os.Stderr, level, nil)
	return c.run(tagging.NewTagger(logger), os.Stdin, os.Stdout)
}

func (c *TagCmd) run(tagger *tagging.Tagger, in io.Reader, out io.Writer) error {
	fragment, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read fragment: %w", err)
	}

	name := c.Name
	if name == "" {
		name, err = tagging.NameFor(nil, tagging.Source(c.Source), c.Value)
		if err != nil {
			return err
		}
	}

	_, err = io.WriteString(out, tagger.Tag(string(fragment), name))
	return err
}
