// Package movieserver provides a client for the movie catalog server's
// token-authenticated HTTP API.
//
// The API has two endpoints: POST /api/auth exchanges a username and
// password for a bearer token, and GET /api/movies/{year}/{page} returns
// a JSON array of movies for one page of one year. The server exposes no
// page count; requesting past the last page yields a non-success status.
//
// FetchPage classifies every response into one of the scan package's
// page statuses instead of returning errors, because for pagination the
// interesting distinction is success versus expired session versus
// everything else: a transport failure, an empty page and a server error
// all stop the scan the same way.
package movieserver
