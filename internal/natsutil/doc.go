// Package natsutil holds small helpers shared by the NATS-backed sinks.
package natsutil
