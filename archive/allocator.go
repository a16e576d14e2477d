package archive

import "github.com/vfarchive/vfa/section"

// allocate reserves a slot large enough to hold p bytes of payload plus one
// entry record, implementing the archive's best-fit free-list rule: the
// smallest free entry whose reserved space still fits, ties broken by
// insertion order; otherwise a new block range is appended at EOF.
func (a *Archive) allocate(p uint32) (*section.Entry, error) {
	need := p + uint32(section.Size)

	bestIdx := -1
	for i, free := range a.entries {
		capacity := free.NumBlocks * a.header.BytesPerBlock
		if capacity < need {
			continue
		}
		if bestIdx == -1 || free.NumBlocks < a.entries[bestIdx].NumBlocks {
			bestIdx = i
		}
	}

	if bestIdx != -1 {
		slot := a.entries[bestIdx]
		a.entries = append(a.entries[:bestIdx], a.entries[bestIdx+1:]...)
		return slot, nil
	}

	size, err := a.file.GetSize()
	if err != nil {
		return nil, err
	}

	numBlocks := section.AlignUp(need, a.header.BytesPerBlock) / a.header.BytesPerBlock
	span := int64(numBlocks) * int64(a.header.BytesPerBlock)

	if err := writeAt(a.file, size, make([]byte, span)); err != nil {
		return nil, err
	}

	return &section.Entry{
		Offset:    uint64(size) + uint64(section.Size),
		NumBlocks: numBlocks,
	}, nil
}
