package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"ytcorpus/internal/models"
	"ytcorpus/internal/progress"
)

var (
	_ list.Item = datasetItem{}
	_ list.Item = sampleItem{}
	_ list.Item = userItem{}
)

// datasetItem wraps [models.Dataset] to implement [list.Item].
//
// A live progress event, when present, replaces the static status label
// in the description.
type datasetItem struct {
	dataset models.Dataset
	event   *progress.Event
}

func (i datasetItem) FilterValue() string { return i.dataset.Name }
func (i datasetItem) Title() string       { return i.dataset.Name }
func (i datasetItem) Description() string {
	if i.event != nil {
		return fmt.Sprintf("%s %.0f%%", i.event.Task, i.event.Progress)
	}
	desc := i.dataset.Status.Label()
	if i.dataset.CountOfSamples > 0 {
		desc = fmt.Sprintf("%s • %d samples", desc, i.dataset.CountOfSamples)
	}
	return desc
}

// sampleItem wraps [models.Sample] to implement [list.Item].
type sampleItem struct {
	sample models.Sample
}

func (i sampleItem) FilterValue() string { return i.sample.TextOrEmpty() }
func (i sampleItem) Title() string       { return i.sample.Filename }
func (i sampleItem) Description() string {
	text := i.sample.TextOrEmpty()
	if text == "" {
		text = "(no transcription)"
	}
	return fmt.Sprintf("[%s] %s", i.sample.Status.Label(), text)
}

// userItem wraps [models.User] to implement [list.Item].
type userItem struct {
	user models.User
}

func (i userItem) FilterValue() string { return i.user.Username }
func (i userItem) Title() string       { return i.user.Username }
func (i userItem) Description() string { return string(i.user.Role) }
