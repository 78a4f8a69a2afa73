// Package journal records ingest sessions and the documents they produced in
// a SQLite database under the state directory.
//
// Placements are never stored: folder and box are always recomputed from the
// document id and the current archive map. The journal exists so that a
// re-scan of byte-identical content can be reported before it is uploaded a
// second time, and so `paperarchive journal` can show what was ingested when.
package journal
