// Command pdfalcon-inspect parses a PDF file and prints a summary of its
// cross-reference entries and newest trailer: useful for sanity-checking a file
// pdfalcon wrote, or diagnosing one it refuses to read.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	pdf "github.com/patrick-ryan/pdfalcon"
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: pdfalcon-inspect FILE.pdf")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer f.Close()

	doc, err := pdf.ReadDocument(f)
	if err != nil {
		log.Fatalf("read: %v", err)
	}

	fmt.Printf("PDF version: %s\n", doc.Version)
	fmt.Printf("sections:    %d\n", len(doc.Sections))

	for i, sec := range doc.Sections {
		inUse, free := 0, 0
		for _, ref := range sec.Order {
			if sec.Objects[ref].Free {
				free++
			} else {
				inUse++
			}
		}
		fmt.Printf("  section %d: %d in use, %d free\n", i, inUse, free)
		if sec.Trailer != nil {
			fmt.Printf("    root: %s  size: %d", sec.Trailer.Root, sec.Trailer.Size)
			if sec.Trailer.Prev != nil {
				fmt.Printf("  prev: %d", *sec.Trailer.Prev)
			}
			fmt.Println()
		}
	}

	refs := doc.Store.References()
	fmt.Printf("object store: %d objects (including the free-list head)\n", len(refs))
}
