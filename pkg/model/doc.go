// Package model defines the form schema consumed by the validation and
// derivation engines: typed fields, their validation rule sets, derived field
// wiring (parent ids plus a formula), and the tagged Value cells a form
// session stores per field. Schemas round-trip through JSON and YAML without
// loss, including nested rule sets and ordered option lists. The package has
// no behaviour beyond structural checks; see Check for the invariants a schema
// must satisfy before a session can be opened on it.
package model
