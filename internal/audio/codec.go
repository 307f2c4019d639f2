package audio

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Decode accepts raw base64 or a browser data URL
// ("data:audio/wav;base64,....") and returns the audio bytes.
func Decode(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("empty audio payload")
	}

	if idx := strings.IndexByte(payload, ','); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode audio payload: %w", err)
	}
	return data, nil
}

// Encode wraps audio bytes in a data URL for the browser client.
func Encode(data []byte) string {
	return "data:audio/mp3;base64," + base64.StdEncoding.EncodeToString(data)
}
