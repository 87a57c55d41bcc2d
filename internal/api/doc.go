// Package api implements the HTTP handlers for the task tracker's JSON API:
// authentication endpoints and ownership-scoped task CRUD.
package api
