package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// hairpin annotations share residues A.G1 A.G2 A.G3 A.C8 A.C9 A.C10.
const (
	fullHairpin = `{
  "residues": ["A.G1", "A.G2", "A.G3", "A.C8", "A.C9", "A.C10"],
  "basePairs": [
    {"nt1": "A.G1", "nt2": "A.C10", "lw": "cWW"},
    {"nt1": "A.G2", "nt2": "A.C9", "lw": "cWW"},
    {"nt1": "A.G3", "nt2": "A.C8", "lw": "cWW"}
  ],
  "stackings": [{"nt1": "A.G1", "nt2": "A.G2"}]
}`
	partialHairpin = `residues: [A.G1, A.G2, A.G3, A.C8, A.C9, A.C10]
basePairs:
  - {nt1: A.G1, nt2: A.C10, lw: cWW}
`
	brokenAnnotation = `residues: [G1]`
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
