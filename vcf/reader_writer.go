package vcf

import "io"

// Reader yields decoded VCF records from some underlying stream. Read
// returns io.EOF once the stream is exhausted.
type Reader interface {
	io.Closer
	Header() (*Header, error)
	Read() (*Record, error)
}

// Writer accepts decoded VCF records and serialises them to some
// underlying stream. WriteHeader must be called exactly once, before any
// Write call.
type Writer interface {
	WriteHeader(*Header) error
	Write(*Record) error
	Close() error
}
