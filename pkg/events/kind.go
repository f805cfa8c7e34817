package events

//go:generate go run github.com/dmarkham/enumer -type Kind -trimprefix Kind -transform snake -json -output kind.gen.go

// Kind identifies the shape of a domain event payload.
type Kind int

const (
	KindIssuerCreated Kind = iota
	KindCertificateIssued
	KindCertificateDestroyed
)
