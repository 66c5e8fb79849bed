// Package pump moves chat messages over an established session.
//
// A Pump runs two flows over one connection. The receive flow reads frames,
// decrypts them and delivers trimmed text to a MessageSink. The send flow
// reads lines from a LineSource, trims them, then encrypts and frames every
// non-empty one. When the receive flow ends it cancels the session context;
// the send flow observes that at its next wait and returns. Cancellation wins
// over a line that becomes available at the same moment.
package pump
