// Package api implements the HTTP client for the dataset pipeline backend.
//
// The backend owns ingestion, segmentation, transcription and persistence;
// this package is only the request/response surface: cookie-session auth,
// dataset and sample directories, user administration, transcription
// commands and the raw audio stream. Non-2xx responses carry a
// {detail: string | {message: string}} envelope which is folded into the
// returned error.
package api
