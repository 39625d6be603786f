package index

import (
	"encoding/binary"
)

// key = ordinal(8, big endian) + 0x00 + slug
// Cursor order over these keys is content order.
func makeOrdinalSlugKey(ordinal uint64, slug string) []byte {
	buf := make([]byte, 8, 8+1+len(slug))
	binary.BigEndian.PutUint64(buf, ordinal)
	buf = append(buf, 0x00)
	buf = append(buf, slug...)
	return buf
}

func slugFromOrdinalSlugKey(k []byte) string {
	if len(k) < 8+2 || k[8] != 0x00 {
		return ""
	}
	return string(k[9:])
}
