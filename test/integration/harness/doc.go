// Package harness provides utilities for integration testing the flagkeeper CLI.
// It handles binary compilation, environment isolation, and command execution.
//
// Environment variables managed:
//   - FLAGKEEPER_HOME: Isolated per test (temp directory)
//   - FLAGKEEPER_DEBUG: Disabled to reduce noise
//   - FLAGKEEPER_BACKEND: Left to the test, sqlite when unset
package harness
