// Package audio frames raw PCM returned by speech synthesis.
package audio

import (
	"bytes"
	"encoding/binary"
)

const (
	HeaderSize = 44

	VoiceChannels      = 1
	VoiceSampleRate    = 24000
	VoiceBitsPerSample = 16
)

type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

// EncodeWAV wraps little-endian PCM samples in a canonical RIFF/WAVE container.
func EncodeWAV(pcm []byte, channels, sampleRate, bitsPerSample int) []byte {
	blockAlign := channels * bitsPerSample / 8
	h := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(36 + len(pcm)),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * blockAlign),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: uint16(bitsPerSample),
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(len(pcm)),
	}
	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize+len(pcm)))
	// writes to a bytes.Buffer cannot fail
	_ = binary.Write(buf, binary.LittleEndian, &h)
	buf.Write(pcm)
	return buf.Bytes()
}

// EncodeVoiceWAV frames PCM produced by the speech model (mono, 24 kHz, 16-bit).
func EncodeVoiceWAV(pcm []byte) []byte {
	return EncodeWAV(pcm, VoiceChannels, VoiceSampleRate, VoiceBitsPerSample)
}
