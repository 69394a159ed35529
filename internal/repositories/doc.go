// package repositories provides the local persistence layer.
//
// The sqlite database holds two things that never leave the machine:
// the saved backend session cookie and the review journal, an
// append-only record of the review actions performed through this
// client.
package repositories
