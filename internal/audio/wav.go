package audio

import "encoding/binary"

// TranscribeRate is the sample rate the transcription API expects.
const TranscribeRate = 16000

const wavHeaderSize = 44

type wavInfo struct {
	channels   int
	sampleRate int
	bits       int
}

// NormalizeWAV rewrites an uncompressed 16-bit WAV payload as mono at the
// target rate. Payloads that are not plain PCM WAV (compressed containers,
// other bit depths) pass through unchanged; the transcription API accepts
// those directly.
func NormalizeWAV(data []byte, targetRate int) []byte {
	info, pcm, ok := parseWAV(data)
	if !ok || info.bits != 16 {
		return data
	}

	samples := PCMBytesToInt16(pcm)
	switch info.channels {
	case 1:
	case 2:
		samples = DownmixStereo(samples)
	default:
		return data
	}

	if info.sampleRate != targetRate {
		samples = ResampleInt16(samples, info.sampleRate, targetRate)
	}

	return writeWAV(Int16ToPCMBytes(samples), targetRate)
}

func parseWAV(data []byte) (wavInfo, []byte, bool) {
	if len(data) < wavHeaderSize ||
		string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return wavInfo{}, nil, false
	}

	var info wavInfo
	var pcm []byte
	haveFmt := false

	// Chunks start after the RIFF header; sizes are padded to even offsets.
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if size < 0 || body+size > len(data) {
			return wavInfo{}, nil, false
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return wavInfo{}, nil, false
			}
			format := binary.LittleEndian.Uint16(data[body:])
			if format != 1 {
				return wavInfo{}, nil, false
			}
			info.channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			info.sampleRate = int(binary.LittleEndian.Uint32(data[body+4:]))
			info.bits = int(binary.LittleEndian.Uint16(data[body+14:]))
			haveFmt = true
		case "data":
			pcm = data[body : body+size]
		}

		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if !haveFmt || pcm == nil || info.sampleRate <= 0 {
		return wavInfo{}, nil, false
	}
	return info, pcm, true
}

func writeWAV(pcm []byte, sampleRate int) []byte {
	out := make([]byte, wavHeaderSize+len(pcm))

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+len(pcm)))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1)
	binary.LittleEndian.PutUint16(out[22:24], 1)
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(sampleRate*2))
	binary.LittleEndian.PutUint16(out[32:34], 2)
	binary.LittleEndian.PutUint16(out[34:36], 16)

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(pcm)))
	copy(out[wavHeaderSize:], pcm)

	return out
}
