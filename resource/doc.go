// Package resource enforces process-wide budgets shared by primstore
// components.
//
// A single Controller can be handed to any number of arenas and snapshot
// operations:
//
//   - Memory: arenas reserve their region size with TryAcquireMemory before
//     mapping it and give it back on Free. Reservation never blocks; an
//     exhausted budget surfaces as offheap.ErrMemoryLimit.
//   - Background slots: bound how many snapshot saves and loads run at once.
//   - IO: a token bucket throttles snapshot bytes through RateLimitedReader and
//     RateLimitedWriter.
//
// A nil *Controller is valid and imposes no limits.
package resource
