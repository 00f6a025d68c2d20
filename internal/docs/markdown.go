// Package docs renders the vitehook command tree as Markdown and man pages.
package docs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// GenMarkdownTree writes one Markdown file per visible command into dir.
func GenMarkdownTree(cmd *cobra.Command, dir string) error {
	for _, c := range visibleCommands(cmd) {
		if err := GenMarkdownTree(c, dir); err != nil {
			return err
		}
	}

	path := filepath.Join(dir, basename(cmd)+".md")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	return GenMarkdown(cmd, f)
}

// GenMarkdown writes the Markdown page for a single command.
func GenMarkdown(cmd *cobra.Command, w io.Writer) error {
	cmd.InitDefaultHelpCmd()
	cmd.InitDefaultHelpFlag()

	buf := new(bytes.Buffer)
	name := cmd.CommandPath()

	fmt.Fprintf(buf, "## %s\n\n%s\n\n", name, cmd.Short)
	if cmd.Long != "" {
		fmt.Fprintf(buf, "### Synopsis\n\n%s\n\n", cmd.Long)
	}
	if cmd.Runnable() {
		fmt.Fprintf(buf, "```\n%s\n```\n\n", cmd.UseLine())
	}
	if cmd.Example != "" {
		fmt.Fprintf(buf, "### Examples\n\n```\n%s\n```\n\n", cmd.Example)
	}

	if flags := cmd.NonInheritedFlags(); flags.HasAvailableFlags() {
		fmt.Fprintf(buf, "### Options\n\n```\n%s```\n\n", flags.FlagUsages())
	}
	if flags := cmd.InheritedFlags(); flags.HasAvailableFlags() {
		fmt.Fprintf(buf, "### Options inherited from parent commands\n\n```\n%s```\n\n", flags.FlagUsages())
	}

	if subs := visibleCommands(cmd); len(subs) > 0 || cmd.HasParent() {
		buf.WriteString("### See also\n\n")
		if cmd.HasParent() {
			parent := cmd.Parent()
			fmt.Fprintf(buf, "* [%s](%s.md) - %s\n", parent.CommandPath(), basename(parent), parent.Short)
		}
		for _, c := range subs {
			fmt.Fprintf(buf, "* [%s](%s.md) - %s\n", c.CommandPath(), basename(c), c.Short)
		}
		buf.WriteString("\n")
	}

	_, err := buf.WriteTo(w)
	return err
}

func visibleCommands(cmd *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, c := range cmd.Commands() {
		if !c.IsAvailableCommand() || c.IsAdditionalHelpTopicCommand() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// basename turns "vitehook config check" into "vitehook_config_check".
func basename(cmd *cobra.Command) string {
	return strings.ReplaceAll(cmd.CommandPath(), " ", "_")
}
