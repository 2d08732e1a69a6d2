// Package bedic implements an embedded dictionary engine with three
// interchangeable storage backends:
//
//  1. A static backend (package static): a read-only, single-file format
//     with a sparse position index, optional dictzip compression, and
//     optional SHCM entry compression.
//  2. A dynamic backend (package dynamic): a SQL-backed, editable
//     keyword/description store.
//  3. A hybrid backend (package hybrid): a dynamic overlay on top of a
//     static dictionary, presenting one merged, sorted view while
//     confining all mutation to the dynamic side.
//
// Open selects a backend by the file's suffix: ".edic" loads a dynamic
// dictionary, ".hdic" loads a hybrid dictionary, and any other suffix
// loads a static dictionary. All three backends share one collation
// implementation (package internal/collate) so keyword ordering is
// consistent across the static file, the dynamic store's custom SQL sort,
// and the hybrid merge.
package bedic
