package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dendrascience/xlsdigest/manifest"
	"github.com/taigrr/colorhash"
	"golang.org/x/term"
)

// digestColor picks one of the 256 terminal colours for a digest, so
// files with identical content share a colour in printed output.
func digestColor(digest string) lipgloss.Color {
	n := colorhash.HashString(digest) % 256
	if n < 0 {
		n = -n
	}
	return lipgloss.Color(strconv.Itoa(n))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printManifest writes one "DIGEST  PATH" line per record, colouring the
// digest when color is set.
func printManifest(w io.Writer, rs *manifest.ResultSet, color bool) error {
	for r := range rs.Iterate {
		digest := r.Digest
		if color {
			digest = lipgloss.NewStyle().Foreground(digestColor(r.Digest)).Render(digest)
		}
		if _, err := fmt.Fprintf(w, "%s  %s\n", digest, r.Path); err != nil {
			return err
		}
	}
	return nil
}
