// Package lib holds modules that do not fit strictly into other layers.
//
// It contains shared utilities, background job processing
// (Redis/Asynq), notification email (Resend) and the periodic
// dependency monitor (cron).
package lib
