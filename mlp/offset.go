package mlp

// offset is an index into one of the Network's flat buffers.
type offset int

func (o offset) isValid() bool { return o >= 0 }

const (
	noOffset offset = -1
)
