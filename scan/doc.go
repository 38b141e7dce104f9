// Package scan implements the pagination-discovery engine: it finds out
// how many pages of movies a year has on a server that exposes no total,
// and sums the per-page counts into a year total.
//
// # How a year is scanned
//
// The server only reveals the end of a year's data by failing the first
// request past it, so the Scanner fetches speculatively: it submits
// requests for consecutive page numbers, up to a concurrency limit
// outstanding at once, and keeps submitting until some fetch comes back
// non-successful. Fetches already in flight at that point run to
// completion rather than being cancelled; their results are recorded but
// only successful pages ever count toward a total.
//
// Because fetches complete out of order, the first failure to complete
// is not trusted to mark the end of data. The boundary of a pass is the
// lowest-numbered non-successful page.
//
// The Coordinator inspects the boundary. An authorization rejection
// means the session expired mid-scan: it acquires a fresh token and
// rescans from one page before the boundary, merging the new pass into
// the accumulated result (successful entries win, and are never
// replaced). Anything else means the end of the year's data, and the
// year is finalized. Renewals without forward progress are capped so a
// server that keeps rejecting fresh tokens fails the run instead of
// looping forever.
//
// The Orchestrator logs in once and runs the coordinator for each
// requested year in order, producing one YearTotal per year.
//
// # Collaborators
//
// The engine talks to the server through two small interfaces,
// PageFetcher and Authenticator, implemented by the movieserver package
// and easily faked in tests. The concurrency limit trades request volume
// for latency only; scanning with a limit of 1 and a limit of 200 yields
// the same totals.
package scan
