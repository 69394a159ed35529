package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"ytcorpus/internal/formatter"
	"ytcorpus/internal/shared"
	"ytcorpus/internal/tasks"
)

// Export writes a dataset's full sample directory to local files.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}

	format := cmd.String("format")
	output := cmd.String("output")

	if err := r.restoreSession(); err != nil {
		return err
	}

	dataset, err := r.client.GetDataset(ctx, id)
	if err != nil {
		return err
	}

	updates := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go r.drainProgress(updates, done)

	samples, err := r.reviewEngine().CollectSamples(ctx, id, r.config.Review.PageSize, updates)
	close(updates)
	<-done

	if err != nil {
		return err
	}

	export := &formatter.DatasetExport{Dataset: *dataset, Samples: samples}

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Wrote %s and %s (%d samples)\n", result.SamplesFile, result.MetadataFile, len(samples))
	case "markdown", "md":
		path, err := formatter.WriteMarkdownExport(export, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Wrote %s (%d samples)\n", path, len(samples))
	case "transcript", "txt":
		path, err := formatter.WriteTranscriptExport(export, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Wrote %s (%d samples)\n", path, len(samples))
	case "json":
		if output == "" {
			return r.writeJSON(export, true)
		}
		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal export: %w", err)
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write export file: %w", err)
		}
		return r.writePlain("✓ Wrote %s (%d samples)\n", output, len(samples))
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}
