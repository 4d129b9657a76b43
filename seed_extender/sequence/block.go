package sequence

// SequenceBlk is a reusable sequence buffer filled by a sequence source.
// Length is the residue count; for ncbi2na it differs from len(Sequence).
type SequenceBlk struct {
	OID      int
	ID       string
	Encoding Encoding
	Sequence []byte
	Length   int
}

// NewSequenceBlk wraps letters already held in enc's one-byte form.
func NewSequenceBlk(id string, residues []byte, enc Encoding) *SequenceBlk {
	return &SequenceBlk{ID: id, Encoding: enc, Sequence: residues, Length: len(residues)}
}

// Reset clears the block but keeps its buffer for reuse.
func (b *SequenceBlk) Reset() {
	b.OID = 0
	b.ID = ""
	b.Sequence = b.Sequence[:0]
	b.Length = 0
}

// Fill encodes letters into the block, reusing its buffer.
func (b *SequenceBlk) Fill(oid int, id string, letters []byte, enc Encoding) error {
	buf, err := Encode(b.Sequence, letters, enc)
	if err != nil {
		return err
	}
	b.OID = oid
	b.ID = id
	b.Encoding = enc
	b.Sequence = buf
	b.Length = len(letters)
	return nil
}

// Letters returns the block's residues as upper-case letters.
func (b *SequenceBlk) Letters() []byte {
	if b.Encoding == EncodingProtein || b.Encoding == EncodingNucleotide {
		return b.Sequence[:b.Length]
	}
	out, _ := Decode(nil, b.Sequence, b.Length, b.Encoding)
	return out
}
