// Package checksum fingerprints T-SQL scripts.
//
// Two digests are produced for every script:
//
//   - Raw: SHA-256 of the exact bytes, changes with any edit
//   - Normalized: SHA-256 after dropping comments, collapsing whitespace and
//     lowercasing everything outside string literals and quoted identifiers
//
// The normalized digest stays stable when a script is only reformatted, so
// two runs can be compared in CI logs even if an editor touched the file.
//
//	calc := checksum.New()
//	raw := calc.CalculateRaw(script)
//	normalized := calc.CalculateNormalized(script)
package checksum
