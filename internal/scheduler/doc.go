// Package scheduler runs mix plans on a bounded worker pool.
//
// Plans enter through [Scheduler.Submit] and come back through the
// returned [Handle]: stage transitions on Progress, a single terminal
// [Result] on Done. Jobs are isolated; one failure neither stops the
// pool nor the batch. Cancellation has two grains: [Handle.Cancel]
// withdraws or kills a single job, while the context passed to [New]
// tears down everything.
package scheduler
