// Package base holds the pieces every CLI command embeds.
package base

import (
	"bytes"
	"flag"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
)

// Command carries the dependencies shared by all commands.
type Command struct {
	// UI is the command's user interface.
	UI cli.Ui

	// Log is the command's logger.
	Log hclog.Logger
}

// FlagSet wraps flag.FlagSet with help rendering.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet creates a new wrapped flag set.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	return &FlagSet{FlagSet: f}
}

// Help returns the flag set's options rendered for command help output.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	f.FlagSet.SetOutput(&buf)
	f.FlagSet.PrintDefaults()
	return "\nOptions:\n\n" + buf.String()
}
