// Package lifecycle implements the dev server hooks a test host calls around a run.
//
// A Controller moves through not_started, starting, ready, closing and closed.
// Before hooks either start an owned dev server through a devserver.Starter or,
// when the server is managed externally, probe its /_nightwatch endpoint.
// After hooks close the owned server; OnAfterRun also removes the test cache.
//
// Probe failures surface as *Error values carrying remediation help and a
// documentation link:
//
//	if lifecycle.IsMissingCapability(err) {
//		// the external server lacks vite-plugin-nightwatch-fixes
//	}
package lifecycle
