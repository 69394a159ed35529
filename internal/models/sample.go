package models

// SampleStatus enumerates the review lifecycle of a single audio sample.
type SampleStatus string

const (
	SampleNew        SampleStatus = "NEW"
	SampleInProgress SampleStatus = "IN_PROGRESS"
	SampleCompleted  SampleStatus = "COMPLETED"
	SampleReviewed   SampleStatus = "REVIEWED"
)

// Label returns a short human-readable label for list rendering.
func (s SampleStatus) Label() string {
	switch s {
	case SampleNew:
		return "new"
	case SampleInProgress:
		return "in progress"
	case SampleCompleted:
		return "completed"
	case SampleReviewed:
		return "reviewed"
	default:
		return string(s)
	}
}

// Sample represents one segmented audio file and its transcription.
//
// Only Text and the review status are client-mutable, via explicit
// edit/approve/reject commands; everything else is backend-owned.
type Sample struct {
	ID        int          `json:"id"`
	DatasetID int          `json:"dataset_id"`
	SpeakerID int          `json:"speaker_id,omitempty"`
	Filename  string       `json:"filename"`
	Text      *string      `json:"text"`
	Duration  float64      `json:"duration"`
	Status    SampleStatus `json:"status"`
	StartTime *float64     `json:"start_time,omitempty"`
	EndTime   *float64     `json:"end_time,omitempty"`
	CreatedAt string       `json:"created_at"`
}

// TextOrEmpty returns the transcription text, or "" when the sample has
// not been transcribed yet.
func (s Sample) TextOrEmpty() string {
	if s.Text == nil {
		return ""
	}
	return *s.Text
}
