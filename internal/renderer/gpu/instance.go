package gpu

// Glyph cell record layout. Every record is four float32 values.
const (
	RecordFloats = 4
	RecordStride = RecordFloats * 4 // bytes

	offsetCellPosition = 0
	offsetHlid         = 2 * 4
	offsetCharIndex    = 3 * 4
)

// InstanceBuffer accumulates glyph cell records for one frame.
type InstanceBuffer struct {
	data []float32
}

// NewInstanceBuffer creates a buffer with room for cells records.
func NewInstanceBuffer(cells int) *InstanceBuffer {
	if cells < 0 {
		cells = 0
	}
	return &InstanceBuffer{data: make([]float32, 0, cells*RecordFloats)}
}

// Push appends the record for one cell.
func (b *InstanceBuffer) Push(col, row, hlid, charIndex int) {
	b.data = append(b.data, float32(col), float32(row), float32(hlid), float32(charIndex))
}

// Reset empties the buffer, keeping its capacity.
func (b *InstanceBuffer) Reset() {
	b.data = b.data[:0]
}

// Len returns the number of complete records.
func (b *InstanceBuffer) Len() int {
	return len(b.data) / RecordFloats
}

// Data returns the packed records. The slice is reused by the next Reset.
func (b *InstanceBuffer) Data() []float32 {
	return b.data
}

// Record returns the i-th record.
func (b *InstanceBuffer) Record(i int) (col, row, hlid, charIndex float32) {
	r := b.data[i*RecordFloats : (i+1)*RecordFloats]
	return r[0], r[1], r[2], r[3]
}

// InstanceCount returns the number of instances a buffer of n floats draws.
// Trailing partial records are ignored.
func InstanceCount(n int) int {
	return n / RecordFloats
}

// quadVertices returns the two triangles covering one cell.
func quadVertices(w, h float32) []float32 {
	return []float32{
		0, 0,
		w, h,
		0, h,
		w, 0,
		w, h,
		0, 0,
	}
}
