package docs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/spf13/cobra"
)

// ManHeader contains man page metadata
type ManHeader struct {
	Section string
	Date    time.Time
	Source  string
	Manual  string
}

// DefaultManHeader returns the header used by GenManTree.
func DefaultManHeader() ManHeader {
	return ManHeader{Section: "1", Source: "vitehook", Manual: "vitehook Manual"}
}

// GenManTree writes one man page per visible command into dir.
func GenManTree(cmd *cobra.Command, dir string, header ManHeader) error {
	for _, c := range visibleCommands(cmd) {
		if err := GenManTree(c, dir, header); err != nil {
			return err
		}
	}

	if header.Section == "" {
		header.Section = "1"
	}
	name := strings.ReplaceAll(cmd.CommandPath(), " ", "-")
	path := filepath.Join(dir, name+"."+header.Section)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	return GenMan(cmd, header, f)
}

// GenMan renders the man page for a single command through md2man.
func GenMan(cmd *cobra.Command, header ManHeader, w io.Writer) error {
	cmd.InitDefaultHelpCmd()
	cmd.InitDefaultHelpFlag()

	if header.Section == "" {
		header.Section = "1"
	}
	if header.Date.IsZero() {
		header.Date = time.Now()
	}

	buf := new(bytes.Buffer)
	name := cmd.CommandPath()

	fmt.Fprintf(buf, "%% %q %q %q %q %q\n# NAME\n",
		strings.ToUpper(strings.ReplaceAll(name, " ", "-")),
		header.Section,
		header.Date.Format("Jan 2006"),
		header.Source,
		header.Manual)
	fmt.Fprintf(buf, "%s \\- %s\n\n", name, cmd.Short)

	fmt.Fprintf(buf, "# SYNOPSIS\n**%s**", name)
	if cmd.NonInheritedFlags().HasAvailableFlags() {
		buf.WriteString(" [OPTIONS]")
	}
	if cmd.HasAvailableSubCommands() {
		buf.WriteString(" COMMAND")
	}
	buf.WriteString("\n\n")

	if cmd.Long != "" {
		fmt.Fprintf(buf, "# DESCRIPTION\n%s\n\n", cmd.Long)
	}

	if flags := cmd.NonInheritedFlags(); flags.HasAvailableFlags() {
		fmt.Fprintf(buf, "# OPTIONS\n```\n%s```\n\n", flags.FlagUsages())
	}

	if cmd.Example != "" {
		fmt.Fprintf(buf, "# EXAMPLE\n```\n%s\n```\n\n", cmd.Example)
	}

	if subs := visibleCommands(cmd); len(subs) > 0 {
		buf.WriteString("# SEE ALSO\n")
		for i, c := range subs {
			if i > 0 {
				buf.WriteString(", ")
			}
			fmt.Fprintf(buf, "**%s(%s)**", strings.ReplaceAll(c.CommandPath(), " ", "-"), header.Section)
		}
		buf.WriteString("\n")
	}

	_, err := w.Write(md2man.Render(buf.Bytes()))
	return err
}
