// Package section defines the document header that frames every wire document.
//
// A buffer holds a sequence of documents, each preceded by a 4-byte header
// word written in the wire's byte order:
//
//	┌──────────────────────────────────────────────┐
//	│ bit 31     not-complete                      │
//	│ bit 30     meta-data                         │
//	│ bits 0-29  payload length in bytes           │
//	├──────────────────────────────────────────────┤
//	│ payload (length bytes)                       │
//	└──────────────────────────────────────────────┘
//
// The length excludes the header itself. A writer reserves the header with
// the not-complete bit set, streams the payload, then patches the header with
// the final length and flags. Readers treat a not-complete header as "no
// document available yet".
package section
