// Package jobs implements the marketplace's background jobs.
//
//   - OrphanSweeper: deletes services whose customer no longer exists
//   - SessionCleaner: deletes expired login sessions
//
// Each job runs once on Start and then on every tick until Stop, which
// waits for an in-flight run to finish. Failures are logged and the job
// keeps running.
package jobs
