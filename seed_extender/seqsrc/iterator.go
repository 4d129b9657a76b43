package seqsrc

// Range is a half-open oid range [Begin, End).
type Range struct {
	Begin, End int
}

func (r Range) Len() int { return r.End - r.Begin }

// Partition splits numSeqs oids into at most workers contiguous, disjoint
// ranges whose sizes differ by at most one. Empty ranges are not returned.
func Partition(numSeqs, workers int) []Range {
	if workers < 1 {
		workers = 1
	}
	if workers > numSeqs {
		workers = numSeqs
	}
	ranges := make([]Range, 0, workers)
	begin := 0
	for i := 0; i < workers; i++ {
		size := numSeqs / workers
		if i < numSeqs%workers {
			size++
		}
		ranges = append(ranges, Range{begin, begin + size})
		begin += size
	}
	return ranges
}

// Iterator hands out oids of one range in chunks. It belongs to a single
// worker.
type Iterator struct {
	r         Range
	next      int
	chunkSize int
}

// NewIterator iterates r in chunks of chunkSize oids (at least 1).
func NewIterator(r Range, chunkSize int) *Iterator {
	if chunkSize < 1 {
		chunkSize = 1
	}
	return &Iterator{r: r, next: r.Begin, chunkSize: chunkSize}
}

// NextChunk returns the next chunk, or false when the range is exhausted.
func (it *Iterator) NextChunk() (Range, bool) {
	if it.next >= it.r.End {
		return Range{}, false
	}
	end := it.next + it.chunkSize
	if end > it.r.End {
		end = it.r.End
	}
	c := Range{it.next, end}
	it.next = end
	return c, true
}
