// Package progress owns the live push-update subscriptions for datasets
// that are being processed by the backend.
//
// The [Manager] keeps a one-to-one correspondence between datasets in a
// transient processing state and open websocket subscriptions. It is the
// single owner of the subscription registry: views hand it the datasets
// they are currently rendering via [Manager.Reconcile] and consume the
// resulting [Update] stream; nothing else opens or closes a subscription.
package progress
