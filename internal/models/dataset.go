package models

// DatasetStatus enumerates the backend-owned lifecycle states of a dataset.
//
// Status transitions are driven entirely by the backend; the client only
// observes them and may request transitions (initialize, transcribe, delete).
type DatasetStatus string

const (
	DatasetInitializing        DatasetStatus = "INITIALIZING"
	DatasetSampling            DatasetStatus = "SAMPLING"
	DatasetSampled             DatasetStatus = "SAMPLED"
	DatasetTranscribing        DatasetStatus = "TRANSCRIBING"
	DatasetFailedTranscription DatasetStatus = "FAILED_TRANSCRIPTION"
	DatasetSemyTranscribed     DatasetStatus = "SEMY_TRANSCRIBED"
	DatasetReview              DatasetStatus = "REVIEW"
	DatasetReady               DatasetStatus = "READY"
	DatasetError               DatasetStatus = "ERROR"
)

// Transient reports whether the status represents in-flight backend
// processing with live progress available over the push channel.
func (s DatasetStatus) Transient() bool {
	switch s {
	case DatasetInitializing, DatasetSampling, DatasetTranscribing:
		return true
	default:
		return false
	}
}

// Label returns a short human-readable label for list rendering.
func (s DatasetStatus) Label() string {
	switch s {
	case DatasetInitializing:
		return "initializing"
	case DatasetSampling:
		return "sampling"
	case DatasetSampled:
		return "sampled"
	case DatasetTranscribing:
		return "transcribing"
	case DatasetFailedTranscription:
		return "transcription failed"
	case DatasetSemyTranscribed:
		return "partially transcribed"
	case DatasetReview:
		return "in review"
	case DatasetReady:
		return "ready"
	case DatasetError:
		return "error"
	default:
		return string(s)
	}
}

// Dataset represents one ingested video and its derived audio samples.
type Dataset struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	URL            string        `json:"url"`
	SourceRelPath  string        `json:"source_rel_path"`
	SegmentsRelDir string        `json:"segments_rel_dir"`
	CountOfSamples int           `json:"count_of_samples"`
	Duration       *float64      `json:"duration"`
	Status         DatasetStatus `json:"status"`
	CreatedAt      string        `json:"created_at"`
	LastUpdate     string        `json:"last_update"`
}
