// Package derive recomputes derived field values after an edit.
//
// A derived field names its parents and a formula. The built-in formulas are
// AGE_FROM_DOB, FULL_NAME and TOTAL_PRICE; any other formula text is an
// arithmetic expression over the parents' values (see package formula).
// Formula failures never escape: the field's value becomes an error marker
// ("Error: <formula>") and the rest of the cascade continues.
//
// The default cascade is a single ordered pass over the schema. A derived
// field is recomputed when one of its parents is the edited field or a field
// already recomputed earlier in the same pass, so a chain only resolves within
// one edit when every link appears after its parent in field order. WithStrict
// repeats the pass until values settle and reports unresolved cycles as
// ErrUnresolvedCycle instead of looping.
package derive
