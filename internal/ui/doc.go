// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the dataset pipeline:
//  1. [LoginView] : Authenticate against the backend
//  2. [DatasetListView] : Browse datasets with live processing progress
//  3. [SampleListView] : Review a dataset's samples (approve/reject)
//  4. [SampleEditView] : Correct a sample's transcription before approving
//  5. [CreateDatasetView] : Submit a video URL for ingestion
//  6. [UserListView] : Manage accounts (admin only)
//  7. [StatsView] : Directory-wide statistics
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Live progress flows from the push-channel manager: the dataset list
// hands its visible rows to the manager on every refresh and consumes the
// resulting update stream, so rows animate while the backend processes
// and refetch exactly once when a task completes.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, a/x, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
