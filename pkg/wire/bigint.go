package wire

import "math/big"

// Varint and decimal unscaled parts travel as big-endian two's complement
// byte strings, the BigInteger convention used by CQL.

func bigIntBytes(v *big.Int) []byte {
	if v == nil || v.Sign() == 0 {
		return []byte{0x00}
	}
	if v.Sign() > 0 {
		b := v.Bytes()
		if b[0]&0x80 != 0 {
			// keep the sign bit clear for non-negative values
			b = append([]byte{0x00}, b...)
		}
		return b
	}
	n := v.BitLen()/8 + 1
	m := new(big.Int).Lsh(big.NewInt(1), uint(8*n))
	m.Add(m, v)
	b := m.Bytes()
	for len(b) < n {
		b = append([]byte{0x00}, b...)
	}
	return b
}

func bigIntFromBytes(b []byte) *big.Int {
	v := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		m := new(big.Int).Lsh(big.NewInt(1), uint(8*len(b)))
		v.Sub(v, m)
	}
	return v
}
