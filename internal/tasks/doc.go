// package tasks implements the long-running corpus workflows.
//
// The engines orchestrate multi-step backend interactions: reviewing
// samples, ingesting videos and following their processing, collecting
// directory statistics and gathering samples for export. Operations emit
// progress updates via channels for non-blocking status reporting to
// CLI/UI layers.
package tasks
