// Package incremental drives the update side of pdfalcon's incremental-
// update model: starting a new update section on an already-read
// Document, and validating the full /Prev chain of an updated file
// before it is trusted.
package incremental

import (
	"context"
	"fmt"

	pdf "github.com/patrick-ryan/pdfalcon"
	"golang.org/x/sync/errgroup"
)

// Update starts a new incremental-update section on doc. Every
// subsequent Put/Free call attaches to this new section, leaving every
// object already on disk untouched, until the next call to Update.
func Update(doc *pdf.Document) {
	doc.NewUpdate()
}

// ValidateChain checks every section of doc concurrently: each section's
// objects must resolve without error through the shared object store.
// Sections are independent of one another (an update section's /Prev
// offset only matters during the byte-level parse, already resolved by
// the time a Document exists in memory), so validation fans out one
// goroutine per section via errgroup and fails on the first error.
func ValidateChain(ctx context.Context, doc *pdf.Document) error {
	g, ctx := errgroup.WithContext(ctx)
	for i, sec := range doc.Sections {
		i, sec := i, sec
		g.Go(func() error {
			for _, ref := range sec.Order {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				obj := sec.Objects[ref]
				if obj.Free {
					continue
				}
				if _, err := doc.Get(ref); err != nil {
					return fmt.Errorf("section %d: object %s: %w", i, ref, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}
