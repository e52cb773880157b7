// Package schema maps (source, event) pairs to payload validators.
//
// Validators are CUE definitions. Validation encodes the payload, unifies it
// with the definition, requires the result to be concrete and decodes it
// back, so definitions can supply defaults (*null | string) and constrain
// values (int & >=0). Top-level payload fields a definition does not declare
// are dropped before unification, so extra fields never fail validation.
//
// A Registry is closed: only explicitly registered pairs validate. Two
// built-in sets exist, selected with New:
//
//   - "autosource": posthog and linear events
//   - "sim": analytics, monitoring, payment, inventory and shipping events
package schema
