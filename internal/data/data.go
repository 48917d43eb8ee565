// Package data bundles a sample compatibility matrix into the binary. It is
// a 41-language subset, not the upstream 139-language dataset; point the
// store at a full file to use real scores everywhere.
package data

import _ "embed"

// FileName is the name of the bundled matrix file.
const FileName = "language-pairs-translation-proximity.json"

// Matrix is the raw JSON of the bundled compatibility matrix.
//
//go:embed language-pairs-translation-proximity.json
var Matrix []byte
