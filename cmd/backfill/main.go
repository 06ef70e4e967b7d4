// Command backfill moves corrections imported from the previous system, where
// all pages of a document were stored as one JSON object, into
// page_corrections rows.
// Usage: go run ./cmd/backfill [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docrecon/internal/config"
	"docrecon/internal/domain"
	"docrecon/internal/pagemap"
	"docrecon/internal/port"
	"docrecon/internal/repository/postgres"
)

const batchSize = 100

type legacyRow struct {
	DocumentID       uuid.UUID `db:"document_id"`
	CorrectedContent string    `db:"corrected_content"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func main() {
	dryRun := flag.Bool("dry-run", false, "decode and report without writing")
	flag.Parse()

	if err := run(*dryRun); err != nil {
		log.Fatal(err)
	}
}

func run(dryRun bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	corrections := postgres.NewCorrectionRepo(db)
	ctx := context.Background()

	var afterID uuid.UUID
	migrated, skipped, pages := 0, 0, 0
	for {
		var rows []legacyRow
		err := db.SelectContext(ctx, &rows,
			`SELECT document_id, corrected_content, updated_at
			 FROM legacy_corrections
			 WHERE migrated_at IS NULL AND document_id > $1
			 ORDER BY document_id
			 LIMIT $2`, afterID, batchSize)
		if err != nil {
			return fmt.Errorf("querying legacy corrections after %s: %w", afterID, err)
		}
		if len(rows) == 0 {
			break
		}

		for i := range rows {
			row := &rows[i]
			afterID = row.DocumentID

			converted, err := toPageCorrections(row)
			if err != nil {
				log.Printf("WARNING: skipping document %s: %v", row.DocumentID, err)
				skipped++
				continue
			}
			if dryRun {
				log.Printf("document %s: %d pages", row.DocumentID, len(converted))
				pages += len(converted)
				migrated++
				continue
			}
			if err := migrateRow(ctx, db, corrections, row.DocumentID, converted); err != nil {
				log.Printf("WARNING: failed to migrate document %s: %v", row.DocumentID, err)
				skipped++
				continue
			}
			pages += len(converted)
			migrated++
		}

		log.Printf("Progress: %d documents migrated, %d skipped", migrated, skipped)
	}

	log.Printf("Backfill complete: %d documents, %d page corrections, %d skipped (dry-run=%v)",
		migrated, pages, skipped, dryRun)
	return nil
}

// toPageCorrections decodes a legacy blob into one correction per page. All
// pages inherit the blob's timestamp.
func toPageCorrections(row *legacyRow) ([]domain.PageCorrection, error) {
	decoded, err := pagemap.Decode(row.CorrectedContent)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PageCorrection, 0, len(decoded))
	for _, n := range pagemap.PageNumbers(decoded) {
		out = append(out, domain.PageCorrection{
			DocumentID:    row.DocumentID,
			PageNumber:    n,
			CorrectedText: decoded[n],
			UpdatedAt:     row.UpdatedAt.UTC(),
		})
	}
	return out, nil
}

func migrateRow(ctx context.Context, db *sqlx.DB, repo port.CorrectionRepository, docID uuid.UUID, converted []domain.PageCorrection) error {
	for i := range converted {
		if err := repo.Upsert(ctx, &converted[i]); err != nil {
			return fmt.Errorf("page %d: %w", converted[i].PageNumber, err)
		}
	}
	_, err := db.ExecContext(ctx,
		`UPDATE legacy_corrections SET migrated_at = NOW() WHERE document_id = $1`, docID)
	return err
}
