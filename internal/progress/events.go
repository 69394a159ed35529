package progress

import "ytcorpus/internal/models"

// Event is one inbound frame from a per-dataset push channel.
//
// Events are ephemeral: the latest one is cached per dataset while its
// subscription is open and discarded as soon as the dataset leaves the
// transient status set.
type Event struct {
	DatasetID int     `json:"dataset_id"`
	Task      string  `json:"task"`
	Progress  float64 `json:"progress"`
}

// Done reports whether the event signals task completion.
//
// A done event is a hint to re-fetch the authoritative dataset record,
// never terminal truth by itself.
func (e Event) Done() bool {
	return e.Progress >= 100
}

// DatasetState is the id/status pair [Manager.Reconcile] operates on.
type DatasetState struct {
	ID     int
	Status models.DatasetStatus
}

// Update is what the manager surfaces to its owning view.
//
// Either Event carries the latest progress for the dataset, or Refetch
// asks the view to re-fetch the dataset's authoritative record because
// its task reported completion.
type Update struct {
	DatasetID int
	Event     *Event
	Refetch   bool
}
