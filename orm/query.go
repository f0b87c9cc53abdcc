package orm

import (
	"github.com/iov-one/remit"
)

// ConsumeIterator reads all remaining data into a slice and closes the
// iterator.
func ConsumeIterator(itr remit.Iterator) []remit.Model {
	defer itr.Close()

	var res []remit.Model
	for ; itr.Valid(); itr.Next() {
		res = append(res, remit.Pair(itr.Key(), itr.Value()))
	}
	return res
}

// queryPrefix returns all models whose key starts with the prefix.
func queryPrefix(db remit.ReadOnlyKVStore, prefix []byte) ([]remit.Model, error) {
	itr, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr), nil
}

// prefixRange returns the iteration bounds covering every key starting
// with the prefix.
func prefixRange(prefix []byte) ([]byte, []byte) {
	start := append([]byte(nil), prefix...)
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return start, end[:i+1]
		}
	}
	// prefix is all 0xFF
	return start, nil
}
