package client

import (
	"github.com/pkg/errors"
)

// rawMessage is a request or response body that is already in wire form.
type rawMessage []byte

// rawCodec passes pre-encoded message bytes through the gRPC stack
// untouched. Encoding and decoding happen in pkg/wire instead.
type rawCodec struct{}

func (rawCodec) Marshal(v any) ([]byte, error) {
	m, ok := v.(*rawMessage)
	if !ok {
		return nil, errors.Errorf("raw codec cannot marshal %T", v)
	}
	return *m, nil
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	m, ok := v.(*rawMessage)
	if !ok {
		return errors.Errorf("raw codec cannot unmarshal into %T", v)
	}
	*m = append((*m)[:0], data...)
	return nil
}

func (rawCodec) Name() string {
	return "proto"
}
