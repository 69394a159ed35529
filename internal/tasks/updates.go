package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Initialize Phase = iota
	FetchRecord
	WatchUpdates
	SaveText
	Approve
	Reject
	FetchDirectory
	FetchSamples
	Transcribe
	Export
)

func (p Phase) String() string {
	switch p {
	case Initialize:
		return "initialize"
	case FetchRecord:
		return "fetch_record"
	case WatchUpdates:
		return "watch_updates"
	case SaveText:
		return "save_text"
	case Approve:
		return "approve"
	case Reject:
		return "reject"
	case FetchDirectory:
		return "fetch_directory"
	case FetchSamples:
		return "fetch_samples"
	case Transcribe:
		return "transcribe"
	case Export:
		return "export"
	default:
		return ""
	}
}

func initializeUpdate(url string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Initialize,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Submitting %s for ingestion...", url),
	}
}

func fetchRecordUpdate(datasetID int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRecord,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching dataset #%d...", datasetID),
	}
}

func watchUpdate(datasetID int, task string, percent float64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WatchUpdates,
		Step:    int(percent),
		Total:   100,
		Message: fmt.Sprintf("[%3.0f%%] dataset #%d %s", percent, datasetID, task),
	}
}

func saveTextUpdate(sampleID int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveText,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Saving edited text for sample #%d...", sampleID),
	}
}

func approveUpdate(sampleID int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Approve,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Approving sample #%d...", sampleID),
	}
}

func rejectUpdate(sampleID int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Reject,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Rejecting sample #%d...", sampleID),
	}
}

func fetchDirectoryUpdate(page int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDirectory,
		Step:    page,
		Total:   0,
		Message: fmt.Sprintf("Fetching dataset directory page %d...", page),
	}
}

func fetchSamplesUpdate(datasetID, page, totalPages int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSamples,
		Step:    page,
		Total:   totalPages,
		Message: fmt.Sprintf("Fetching samples for dataset #%d (page %d)...", datasetID, page),
	}
}

func transcribeUpdate(datasetID int, model string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Transcribe,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Starting transcription of dataset #%d with %s...", datasetID, model),
	}
}
