package capture

import (
	"bytes"
	"encoding/binary"
)

// EncodeWAV wraps 16-bit mono PCM in a minimal 44-byte RIFF header.
func EncodeWAV(pcm []byte, sampleRate int) []byte {
	var b bytes.Buffer
	b.Grow(44 + len(pcm))

	le := binary.LittleEndian
	b.WriteString("RIFF")
	_ = binary.Write(&b, le, uint32(36+len(pcm)))
	b.WriteString("WAVE")

	b.WriteString("fmt ")
	_ = binary.Write(&b, le, uint32(16))
	_ = binary.Write(&b, le, uint16(1)) // PCM
	_ = binary.Write(&b, le, uint16(1)) // mono
	_ = binary.Write(&b, le, uint32(sampleRate))
	_ = binary.Write(&b, le, uint32(sampleRate*2))
	_ = binary.Write(&b, le, uint16(2))
	_ = binary.Write(&b, le, uint16(16))

	b.WriteString("data")
	_ = binary.Write(&b, le, uint32(len(pcm)))
	b.Write(pcm)
	return b.Bytes()
}
