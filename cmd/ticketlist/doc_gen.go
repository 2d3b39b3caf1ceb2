//go:build ignore
// +build ignore

// Generates reference docs for every ticketlist command:
//
//	go run ./cmd/ticketlist/doc_gen.go [outdir]
package main

import (
	"log"
	"os"
	"path/filepath"

	ticketlist "github.com/mithrel/ticketlist/internal/cli"
	"github.com/spf13/cobra/doc"
)

func main() {
	out := "./docs"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	root := ticketlist.NewRootCmd()
	root.DisableAutoGenTag = true

	targets := map[string]func(dir string) error{
		"markdown": func(dir string) error { return doc.GenMarkdownTree(root, dir) },
		"yaml":     func(dir string) error { return doc.GenYamlTree(root, dir) },
		"man": func(dir string) error {
			return doc.GenManTree(root, &doc.GenManHeader{
				Title:   "TICKETLIST",
				Section: "1",
				Source:  "ticketlist",
				Manual:  "Support ticket browser",
			}, dir)
		},
	}
	for name, gen := range targets {
		dir := filepath.Join(out, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal(err)
		}
		if err := gen(dir); err != nil {
			log.Fatalf("%s docs: %v", name, err)
		}
	}
}
