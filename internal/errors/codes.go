package errors

// Error codes surfaced across the pipeline boundary.
//
// Code ranges:
// E0001-E0099: IR-text boundary parse/shape errors (stand in for the
//              front-end's semantic errors per spec.md §7 kind 1)
// E0900-E0999: back-end fatal invariant failures (spec.md §7 kind 2)
const (
	ErrorMalformedIR    = "E0001"
	ErrorUnknownBlock   = "E0002"
	ErrorUnknownLocal   = "E0003"
	ErrorDuplicateLabel = "E0004"
	ErrorArityMismatch  = "E0005"
	ErrorUnknownType    = "E0006"

	FaultUnsupportedWidth = "E0900"
	FaultUnreachableCase  = "E0901"
	FaultMalformedCFG     = "E0902"
)
