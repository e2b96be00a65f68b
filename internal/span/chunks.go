package span

import (
	"fmt"
)

// Chunk - A part of a flash span that lies within a single erase sector
//   - Address is the absolute flash address where the chunk starts
//   - SectorAddress is the absolute flash address of the sector containing the chunk
//   - Offset is the chunk start relative to the start of the whole span
//   - Length is the number of bytes in the chunk
type Chunk struct {
	Address       uint32
	SectorAddress uint32
	Offset        int
	Length        int
}

// SectorOffset - Returns the chunk start relative to the start of its sector
func (C Chunk) SectorOffset() int {
	return int(C.Address - C.SectorAddress)
}

// Chunks - Is used to iterate over the sector bounded chunks of a flash span one by one.
type Chunks struct {
	address    uint32
	remaining  int
	offset     int
	sectorSize uint32
}

// NewChunks - Returns a pointer to a new Chunks struct covering length bytes from address
func NewChunks(address uint32, length int, sectorSize int) *Chunks {
	if length < 0 {
		length = 0
	}

	return &Chunks{
		address:    address,
		remaining:  length,
		sectorSize: uint32(sectorSize),
	}
}

// HasNext - Returns true if there are more chunks to be fetched from a call to Next.
func (C *Chunks) HasNext() bool {
	return C.remaining > 0 && C.sectorSize > 0
}

// Next - Returns chunk.
// It returns:
//   - chunk is the next part of the span, never crossing a sector boundary.
//   - err is a standard error if there are no more chunks when calling this function.
func (C *Chunks) Next() (chunk Chunk, err error) {
	if !C.HasNext() {
		err = fmt.Errorf("no more chunks in span")
		return
	}

	sectorAddress := C.address - C.address%C.sectorSize
	length := int(sectorAddress + C.sectorSize - C.address)
	if length > C.remaining {
		length = C.remaining
	}

	chunk = Chunk{
		Address:       C.address,
		SectorAddress: sectorAddress,
		Offset:        C.offset,
		Length:        length,
	}

	C.address += uint32(length)
	C.offset += length
	C.remaining -= length

	return
}
