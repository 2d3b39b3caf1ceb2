package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/ticketlist/internal/db"
	"github.com/mithrel/ticketlist/pkg/api"
)

const importBatch = 500

func newImportCmd() *cobra.Command {
	var file, dbURL string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import tickets from JSON (array or NDJSON) into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(file) == "" {
				return fmt.Errorf("--file is required")
			}
			app := getApp(cmd)
			store, err := app.Store(cmd.Context())
			if err != nil {
				return err
			}
			n, err := importFile(cmd.Context(), store, file)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported: %d\n", n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "input JSON file (array or NDJSON)")
	cmd.Flags().StringVar(&dbURL, "db-url", "", "store url (override config db_url)")
	return cmd
}

func importFile(ctx context.Context, store db.Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return importTickets(ctx, store, f)
}

// importTickets reads a JSON array or NDJSON stream and puts the tickets
// in batches. Tickets without id get a content-derived one; tickets without a
// creation time are stamped with the import time.
func importTickets(ctx context.Context, store db.Store, r io.Reader) (int, error) {
	br := bufio.NewReader(r)
	first, err := peekFirstNonSpace(br)
	if errors.Is(err, io.EOF) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	now := time.Now().UnixMilli()
	normalize := func(t *api.Ticket) {
		if t.CreationTime == 0 {
			t.CreationTime = now
		}
		t.UserEmail = strings.TrimSpace(t.UserEmail)
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			t.ID = api.DeriveID(*t)
		}
	}

	dec := json.NewDecoder(br)
	imported := 0
	batch := make([]api.Ticket, 0, importBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := store.Put(ctx, batch...); err != nil {
			return err
		}
		imported += len(batch)
		batch = batch[:0]
		return nil
	}

	if first == '[' {
		var arr []api.Ticket
		if err := dec.Decode(&arr); err != nil {
			return 0, fmt.Errorf("decode ticket array: %w", err)
		}
		for i := range arr {
			normalize(&arr[i])
			batch = append(batch, arr[i])
			if len(batch) == importBatch {
				if err := flush(); err != nil {
					return imported, err
				}
			}
		}
		return imported, flush()
	}

	for line := 1; ; line++ {
		var t api.Ticket
		if err := dec.Decode(&t); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return imported, fmt.Errorf("decode ticket %d: %w", line, err)
		}
		normalize(&t)
		batch = append(batch, t)
		if len(batch) == importBatch {
			if err := flush(); err != nil {
				return imported, err
			}
		}
	}
	return imported, flush()
}

func peekFirstNonSpace(r *bufio.Reader) (byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if b == ' ' || b == '\n' || b == '\r' || b == '\t' {
			continue
		}
		// put it back for the decoder
		if err := r.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}
