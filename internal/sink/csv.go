// Package sink appends the final record set to a delimited file.
package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/scrapework/harvester/internal/crawl"
)

// CSV writes one delimited file per run under a root directory.
type CSV struct {
	root      string
	delimiter rune
	logger    *zap.Logger
}

// NewCSV returns a sink rooted at dir using the given field delimiter.
func NewCSV(root string, delimiter rune, logger *zap.Logger) (*CSV, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create sink dir %s: %w", root, err)
	}
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSV{
		root:      root,
		delimiter: delimiter,
		logger:    logger,
	}, nil
}

// Write persists the header and one row per record to filename. The header
// row is always written, so an empty record set yields a header-only file.
func (s *CSV) Write(ctx context.Context, filename string, header []string, records []crawl.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context canceled: %w", err)
	}

	target := filepath.Join(s.root, filename)
	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create output %s: %w", target, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = s.delimiter
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("write header to %s: %w", target, err)
	}
	for _, record := range records {
		if err := writer.Write(record.Row()); err != nil {
			return "", fmt.Errorf("write row to %s: %w", target, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush %s: %w", target, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", target, err)
	}

	s.logger.Info("output written",
		zap.String("path", target),
		zap.Int("records", len(records)),
	)
	return target, nil
}
