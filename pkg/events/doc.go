/*
Package events provides an in-memory broker for reconciliation events.

Every executed decision publishes one event: object created, updated,
deleted, found in sync, or skipped under dry-run. Subscribers receive
events over buffered channels and a slow subscriber never blocks the
pipeline; the broadcast loop drops rather than waits.

Events carry the object's identity and a small field map, so a consumer
can render a human line (the CLI does) or forward structured records.
*/
package events
