// Package task provides background processing for persistence work the
// practice scheduler fires and forgets. Saves are queued in memory and
// processed by a worker goroutine; failures are logged and dropped, never
// retried, preserving the scheduler's optimistic-continue contract.
package task
