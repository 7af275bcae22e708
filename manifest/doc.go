// Package manifest builds path-ordered digest manifests of spreadsheet files.
//
// A scan runs in three stages connected by iterators and channels:
//
// Enumeration:
//   - Enumerator lists one directory level lazily, in Readdir batches
//   - Only regular files accepted by a Matcher are yielded
//     (SpreadsheetMatcher: any extension starting with .xls)
//   - Listing failures become *DirectoryAccessError and an ErrorHandler
//     decides whether the scan continues without that directory
//
// Hashing:
//   - Pool runs a fixed number of workers (DefaultWorkers = 4) fed by a
//     single producer ranging over the enumeration
//   - Each worker streams one file at a time through the Algorithm with
//     its own copy buffer; md5, sha256, blake3 and xxh3 are registered
//   - A file that cannot be read aborts the scan with *FileReadError
//
// Aggregation:
//   - Aggregator accepts concurrent inserts under a mutex and rejects
//     duplicate paths
//   - Snapshot returns a ResultSet sorted by byte-wise path comparison,
//     independent of completion order
//
// Scanner composes the three stages. WriteCSV and WriteFile render a
// ResultSet as a fully quoted two-column CSV.
package manifest
