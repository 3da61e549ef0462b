// Package service contains the business logic.
//
// It sits between the handler and repository layers: handlers call
// services, services call repositories and publish side effects such
// as background jobs.
package service
