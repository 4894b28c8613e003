package domain

import (
	"sort"
	"strings"
)

// FlagDefinition documents a single flag accepted by a subcommand.
type FlagDefinition struct {
	Flag        string `json:"flag" yaml:"flag"`
	Description string `json:"description" yaml:"description"`
}

// ExampleDefinition pairs an invocable command line with its explanation.
type ExampleDefinition struct {
	Command     string `json:"command" yaml:"command"`
	Explanation string `json:"explanation" yaml:"explanation"`
}

// SubcommandDefinition describes one subcommand of a cataloged command.
// Identity is the (command name, subcommand name) pair; the definition
// itself is immutable after load.
type SubcommandDefinition struct {
	Syntax      string              `json:"syntax" yaml:"syntax"`
	Description string              `json:"description" yaml:"description"`
	Flags       []FlagDefinition    `json:"flags" yaml:"flags"`
	Examples    []ExampleDefinition `json:"examples" yaml:"examples"`
}

// CommandDefinition is the top-level catalog entity keyed by command name.
// Names are normalized to lower case on load; SubOrder holds subcommand
// names in deterministic (ascending) order.
type CommandDefinition struct {
	Name        string
	Description string
	Subcommands map[string]SubcommandDefinition
	SubOrder    []string
	Source      string
}

// Subcommand looks up a subcommand by name, case-insensitively.
func (c CommandDefinition) Subcommand(name string) (SubcommandDefinition, bool) {
	sub, ok := c.Subcommands[strings.ToLower(name)]
	return sub, ok
}

// Identity addresses one SubcommandDefinition within the catalog.
// Subcommand may be empty when the identity refers to the command itself.
type Identity struct {
	Command    string
	Subcommand string
}

func (id Identity) String() string {
	if id.Subcommand == "" {
		return id.Command
	}
	return id.Command + " " + id.Subcommand
}

// Catalog is the merged set of command definitions with a deterministic
// iteration order. It is built once at startup and never mutated; it is
// safe for concurrent readers.
type Catalog struct {
	commands map[string]CommandDefinition
	order    []string
}

// NewCatalog builds a catalog from definitions. Subcommand order is
// normalized to ascending name order; command order is ascending name
// order regardless of the order definitions are passed in.
func NewCatalog(defs []CommandDefinition) *Catalog {
	commands := make(map[string]CommandDefinition, len(defs))
	order := make([]string, 0, len(defs))
	for _, def := range defs {
		name := strings.ToLower(def.Name)
		def.Name = name
		def.SubOrder = sortedSubcommandNames(def.Subcommands)
		commands[name] = def
		order = append(order, name)
	}
	sort.Strings(order)
	return &Catalog{commands: commands, order: order}
}

func sortedSubcommandNames(subs map[string]SubcommandDefinition) []string {
	names := make([]string, 0, len(subs))
	for name := range subs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Command looks up a command by name, case-insensitively.
func (c *Catalog) Command(name string) (CommandDefinition, bool) {
	def, ok := c.commands[strings.ToLower(name)]
	return def, ok
}

// Names returns the command names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len reports the number of commands in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Subcommands returns the total number of subcommands across all commands.
func (c *Catalog) Subcommands() int {
	total := 0
	for _, name := range c.order {
		total += len(c.commands[name].SubOrder)
	}
	return total
}
