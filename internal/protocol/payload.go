package protocol

// Verifiable is implemented by every structured payload type. Verify stands
// in for FlatBuffers' structural verification: no library in this repo's
// dependency corpus speaks FlatBuffers, so each payload checks its own
// invariants (string lengths, enum ranges, slice bounds) before a handler
// ever touches it.
type Verifiable interface {
	Verify() error
}

// Unmarshaler is implemented by payload pointer types that decode
// themselves from a raw body using the Reader binary idiom.
type Unmarshaler interface {
	Verifiable
	UnmarshalBinary([]byte) error
}

// DecodePayload allocates a zero T, unmarshals payload into it, verifies it,
// and returns it. ErrVerifyFailed (or the UnmarshalBinary error) propagates
// on failure rather than handing the caller a half-decoded struct.
func DecodePayload[T any, PT interface {
	*T
	Unmarshaler
}](payload []byte) (*T, error) {
	var v T
	p := PT(&v)
	if err := p.UnmarshalBinary(payload); err != nil {
		return nil, err
	}
	if err := p.Verify(); err != nil {
		return nil, err
	}
	return &v, nil
}
