package tasks

import (
	"context"
	"fmt"

	"ytcorpus/internal/api"
	"ytcorpus/internal/models"
	"ytcorpus/internal/shared"
)

// Statistics aggregates the dataset directory.
//
// The backend exposes no aggregate endpoint; these numbers are computed
// client-side from the full directory listing.
type Statistics struct {
	TotalDatasets int                          `json:"total_datasets"`
	TotalSamples  int                          `json:"total_samples"`
	TotalDuration float64                      `json:"total_duration"`
	ByStatus      map[models.DatasetStatus]int `json:"by_status"`
	InProgress    int                          `json:"in_progress"`
}

// CollectStatistics pages through the dataset directory and aggregates it.
func CollectStatistics(ctx context.Context, datasetAPI DatasetAPI, pageSize int, updates chan<- ProgressUpdate) (*Statistics, error) {
	if datasetAPI == nil {
		return nil, fmt.Errorf("%w: dataset API not initialized", shared.ErrServiceUnavailable)
	}
	if pageSize <= 0 {
		pageSize = 100
	}

	stats := &Statistics{
		ByStatus: make(map[models.DatasetStatus]int),
	}

	seen := 0
	for page := 1; ; page++ {
		if updates != nil {
			select {
			case updates <- fetchDirectoryUpdate(page):
			default:
			}
		}

		result, err := datasetAPI.ListDatasets(ctx, api.DatasetFilters{Page: page, Limit: pageSize})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch directory page %d: %w", page, err)
		}

		for _, dataset := range result.Items {
			stats.TotalDatasets++
			stats.TotalSamples += dataset.CountOfSamples
			if dataset.Duration != nil {
				stats.TotalDuration += *dataset.Duration
			}
			stats.ByStatus[dataset.Status]++
			if dataset.Status.Transient() {
				stats.InProgress++
			}
		}

		seen += len(result.Items)
		if len(result.Items) < pageSize || seen >= result.Total {
			break
		}
	}

	return stats, nil
}
