// Package seed loads the dataset a simulation session starts from.
//
// A seed file is YAML. Loading runs three passes and reports every problem
// it finds rather than stopping at the first:
//
//  1. shape: the document is checked against the embedded CUE schema
//     (#Seed in schema.cue), which rejects unknown fields, bad enums and
//     inverted thresholds
//  2. decode: the YAML is decoded into File with unknown fields rejected
//  3. references: IDs are unique and every cross-reference resolves
//
// Default returns the built-in demo dataset.
package seed
