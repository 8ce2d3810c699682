package query

import (
	"strings"

	"github.com/pkg/errors"
)

// Consistency is the per-query durability/visibility guarantee. Values follow
// the CQL protocol numbering.
type Consistency uint16

const (
	Any         Consistency = 0x00
	One         Consistency = 0x01
	Two         Consistency = 0x02
	Three       Consistency = 0x03
	Quorum      Consistency = 0x04
	All         Consistency = 0x05
	LocalQuorum Consistency = 0x06
	EachQuorum  Consistency = 0x07
	Serial      Consistency = 0x08
	LocalSerial Consistency = 0x09
	LocalOne    Consistency = 0x0A
)

// DefaultConsistency is applied by [Builder.Build] when no level was set.
const DefaultConsistency = Quorum

func (c Consistency) String() string {
	switch c {
	case Any:
		return "ANY"
	case One:
		return "ONE"
	case Two:
		return "TWO"
	case Three:
		return "THREE"
	case Quorum:
		return "QUORUM"
	case All:
		return "ALL"
	case LocalQuorum:
		return "LOCAL_QUORUM"
	case EachQuorum:
		return "EACH_QUORUM"
	case Serial:
		return "SERIAL"
	case LocalSerial:
		return "LOCAL_SERIAL"
	case LocalOne:
		return "LOCAL_ONE"
	default:
		return "UNKNOWN"
	}
}

// ParseConsistency converts a consistency level name, as found in config
// files and flags, into a [Consistency].
func ParseConsistency(s string) (Consistency, error) {
	for _, c := range []Consistency{
		Any, One, Two, Three, Quorum, All,
		LocalQuorum, EachQuorum, Serial, LocalSerial, LocalOne,
	} {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, errors.Errorf("invalid consistency level %q", s)
}
