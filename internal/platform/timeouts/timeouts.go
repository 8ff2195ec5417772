// Package timeouts defines shared timeout constants used across the server,
// jobs and client.
package timeouts

import "time"

// StoreIO caps every participant and message store call. Exceeding it is
// reported as a store outage.
const StoreIO = 10 * time.Second

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second

// ClientRequest caps a single client call to the HTTP API.
const ClientRequest = 15 * time.Second

// PollInterval is the default refresh period for client views.
const PollInterval = 10 * time.Second

// Notify caps a single outbound email.
const Notify = 20 * time.Second
