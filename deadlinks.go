// Package deadlinks finds broken hyperlinks on a website. It crawls every
// page reachable from a seed URL within one target domain and reports each
// link that is malformed, unreachable, or answered with an error status.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package deadlinks
