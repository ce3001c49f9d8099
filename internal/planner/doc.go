// Package planner converts a mix session into a MixPlan: the fully
// resolved, immutable description of how one video and its audio clips are
// combined. Build is a pure function of its input — given the same session
// snapshot it always produces a structurally equal plan — and the engine
// package consumes the result without ever reaching back into the session.
package planner
