// Package scout provides an aggregation, scoring and retrieval engine for
// outreach opportunities: conferences, podcasts, press queries, research
// papers and product trends. It pulls loosely-typed records from external
// sources, normalizes them into a canonical Candidate, upserts them into
// durable storage keyed by a natural identity, scores them with a weighted
// multi-factor formula, and serves filtered and full-text queries.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gofeed/, resty/).
package scout
