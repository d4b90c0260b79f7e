// Package api contains the HTTP handlers for the insight API: auth
// (register/login/refresh), experience ingestion and retrieval, and the
// domain analytics endpoints (validation, co-occurrence network,
// similarity, suggestion). Handlers stay thin: they decode and validate
// requests, delegate to services, and map errors to safe responses.
package api
