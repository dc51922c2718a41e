// Package competitor provides baseline index structures that the bench
// harness races against lsi.LSI: a conventional sorted-array binary search
// (standing in for a B-tree leaf layer) and an open-addressing hash index
// (standing in for a hash-table secondary index). Both satisfy the same
// minimal Index interface so the harness can drive them identically.
//
// Two of the indexes learned-index papers traditionally compare against,
// ART and FAST, are not implementable from this module's dependency set
// (the pack contributes no radix-tree or SIMD-intrinsics library for
// either; the teacher's own closest analog, fusion/kmer_index.go, reaches
// for golang.org/x/sys/unix mmap/madvise and unsafe.Pointer arithmetic that
// this project's go.mod trims away, per DESIGN.md's go.mod note on
// dropping golang.org/x/sys). RobinHash adapts that file's hashing and
// linear-probing idiom without the mmap/hugepage machinery.
package competitor

import "github.com/grailbio/lsi/lsi"

// Index is the minimal contract the bench harness needs from a competitor
// secondary index: build once from an unsorted relation, then look up a
// key's first occurrence.
type Index interface {
	Build(relation lsi.Relation)
	Lookup(relation lsi.Relation, key lsi.Key) (lsi.Position, bool)
	ByteSize() int
	Name() string
}
