// Package rules provides the built-in lint rules for phpsniff.
//
// # Rule Domains
//
// Rules are grouped by the construct they look at:
//
//   - Control structures:
//
//   - PS001: no-inline-assignment - Conditions must not assign (detect only)
//
//   - PS002: elseif-keyword - Use elseif instead of else if
//
//   - Operators:
//
//   - PS003: not-equal-operator - Use != instead of <>
//
//   - PS006: no-is-null - Use === null instead of is_null()
//
//   - PS007: concat-spacing - One space around the concatenation operator
//
//   - PS008: cast-spacing - No whitespace after or inside casts
//
//   - Arrays:
//
//   - PS004: short-array-syntax - Use [] instead of array()
//
//   - PS005: multiline-array-trailing-comma - Multi-line arrays end with a comma
//
//   - Statements:
//
//   - PS009: one-statement-per-line - One statement per line
//
//   - PS020: no-space-before-semicolon - No whitespace before semicolons
//
//   - Naming:
//
//   - PS010: method-name-camel-case - Methods are lowerCamelCase
//
//   - PS011: class-name-pascal-case - Types are PascalCase
//
//   - PS012: constant-name-upper-case - Class constants are UPPER_SNAKE_CASE
//
//   - PS017: controller-action-suffix - Public controller methods end in Action
//
//   - Declarations:
//
//   - PS013: constant-visibility - Class constants declare visibility
//
//   - PS019: method-signature-length - Long signatures wrap one parameter per line
//
//   - Doc blocks:
//
//   - PS014: docblock-type-case - Canonical short type names in tags
//
//   - PS015: docblock-return-void - Methods returning nothing document @return void
//
//   - PS016: facade-api-tag - Public facade and client methods carry @api
//
//   - PS018: factory-create-return-docblock - Factory create methods document @return
//
// # Roles
//
// Convention rules (PS016, PS017, PS018) do not inspect class names
// themselves. They read the roles of the enclosing class through
// [lint.RuleContext.Roles], which classifies each declaration once per file.
//
// # Fixes
//
// Fixable rules stage edits on the changeset handed to Fix. Rules that add
// doc block lines share one planner so that two rules documenting the same
// method never create two blocks: the second edit conflicts with the first,
// is skipped, and lands in the next fix pass as an addition to the new block.
package rules
