package graph

import (
	"fmt"
	"hash/fnv"

	"github.com/actorgraph/actorgraph/pkg/common"
)

// fingerprintSamples bounds how many records contribute content to the
// fingerprint. Sampling keeps the guard cheap on large batches; the count
// plus head and tail samples is enough to distinguish batches in practice,
// and a collision only costs a redundant (but safe) rebuild skip check.
const fingerprintSamples = 16

// Fingerprint computes a cheap content fingerprint over a record batch:
// the record count plus a hash of a bounded sample of record contents.
// It is a rebuild guard, not a cryptographic identity.
func Fingerprint(records []*common.EventRecord) string {
	h := fnv.New64a()

	sample := func(i int) {
		rec := records[i]
		h.Write([]byte(rec.Actor))
		h.Write([]byte{0})
		h.Write([]byte(rec.Target))
		h.Write([]byte{0})
		h.Write([]byte(rec.Action))
		h.Write([]byte{1})
	}

	n := len(records)
	if n <= fingerprintSamples {
		for i := range records {
			sample(i)
		}
	} else {
		half := fingerprintSamples / 2
		for i := 0; i < half; i++ {
			sample(i)
		}
		for i := n - half; i < n; i++ {
			sample(i)
		}
	}

	return fmt.Sprintf("%d:%x", n, h.Sum64())
}
