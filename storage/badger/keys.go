package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/termstd/core"
)

const (
	termRecordPrefix    = "termrec"
	termMetaKey         = "termmeta:index"
	historyRecordPrefix = "histrec"
	historyIDSeq        = "histseq"

	deleteBatchSize = 1000
)

// makeTermKey generates a key for a term by ID.
func makeTermKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", termRecordPrefix, id))
}

// makeHistoryKey generates a key for a history record.
// Format: prefix:id, with the ID in BigEndian order so keys sort by insertion.
func makeHistoryKey(id core.ID) []byte {
	prefix := []byte(historyRecordPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
