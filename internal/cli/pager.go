package cli

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
)

const defaultPager = "less -FRSX"

// pagerCommand picks the pager from TICKETLIST_PAGER, then PAGER. An empty
// result means output goes straight to the terminal: "cat" and "-" turn
// paging off.
func pagerCommand() string {
	pager, ok := os.LookupEnv("TICKETLIST_PAGER")
	if !ok {
		pager, ok = os.LookupEnv("PAGER")
	}
	if !ok {
		return defaultPager
	}
	switch pager = strings.TrimSpace(pager); pager {
	case "", "-", "cat":
		return ""
	}
	return pager
}

// withPager streams the listing through the pager when out is a terminal.
// A pager that fails to start falls back to writing out directly.
func withPager(ctx context.Context, out, errOut io.Writer, write func(io.Writer) error) error {
	pager := pagerCommand()
	outFile, ok := out.(*os.File)
	if pager == "" || !ok || !isTerminal(out) {
		return write(out)
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", pager)
	cmd.Stdout = outFile
	cmd.Stderr = os.Stderr
	if errFile, ok := errOut.(*os.File); ok {
		cmd.Stderr = errFile
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return write(out)
	}
	if err := cmd.Start(); err != nil {
		return write(out)
	}
	writeErr := write(stdin)
	_ = stdin.Close()
	if err := cmd.Wait(); err != nil && writeErr == nil {
		return err
	}
	return writeErr
}
