// Package http provides HTTP handlers and middleware for the staybook API.
//
// The router exposes the following endpoints:
//   - POST /sessions: issues a session token. Body: {"email","password"}. Response:
//     {"token","expires_at","principal":{"account_id","is_admin"}} with the token
//     also surfaced via the `X-Session-Token` header and a `session_token` cookie.
//   - DELETE /sessions/current: revokes the session token extracted from the
//     Authorization header or session cookie. Returns 204 No Content and clears
//     the cookie.
//   - GET /units, POST /units, GET /units/{id}, PUT /units/{id}, DELETE /units/{id}:
//     rental unit catalog endpoints exchanging the `unitDTO` payload defined in
//     unit_handler.go. Listing and reading are available to any authenticated
//     principal while mutations require admin privileges.
//   - GET /units/{id}/reservations, POST /units/{id}/reservations, plus
//     GET/PUT/DELETE /reservations/{id}: booking endpoints exchanging the
//     `reservationDTO` payload defined in reservation_handler.go. Create and
//     update responses carry non-blocking overlap warnings.
//   - GET /units/{id}/calendar?view=month|week&date=YYYY-MM-DD&scroll=N: rendered
//     calendar views. Month views return a 42-cell grid, week views return seven
//     hour-grid columns with an optional current-time indicator.
//   - GET /units/{id}/calendar.ics: the unit's reservations as an iCalendar feed.
//   - GET /units/{id}/blocks, POST /units/{id}/blocks, DELETE /blocks/{id}:
//     recurring block rule endpoints exchanging the `blockRuleDTO` payload
//     defined in calendar_handler.go.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
