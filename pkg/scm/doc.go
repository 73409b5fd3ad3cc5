/*
Package scm is the session layer for the configuration backend.

Client is the narrow contract the reconciler depends on: fetch by identity,
create, update, delete. RESTClient implements it against the hosted API with
an OAuth2 client-credentials session and lazy token refresh; the localstore
subpackage implements the same contract against an embedded database for
offline runs and tests.

Errors are typed. Credential failures are *AuthenticationError with the
backend's error code and HTTP status, a missing object is *NotFoundError
(a normal branch during reconciliation, not a failure), and every other
non-success response is *APIError carrying the backend's message verbatim.
API calls are single-attempt and never retried.
*/
package scm
