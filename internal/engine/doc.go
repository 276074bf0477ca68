// Package engine holds the session-scoped fusion core: per-session hysteresis
// state, the per-signal classifiers and the rules that fold five signal
// outcomes into one alert decision.
//
// Everything here is synchronous and deterministic. Given the same thresholds
// and the same ordered frames per session, Process returns the same decisions.
package engine
