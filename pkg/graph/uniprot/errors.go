package uniprot

import "github.com/pkg/errors"

var (
	// ErrMissingAccession is returned when an entry element carries no
	// accession. It aborts the whole parse, not just the offending entry.
	ErrMissingAccession = errors.New("entry has no accession element")

	// ErrMalformedReference is returned when a reference element lacks a
	// citation or an authorList. Also fatal for the whole parse.
	ErrMalformedReference = errors.New("reference is missing citation or authorList")
)
