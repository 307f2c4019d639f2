package shared

import (
	"crypto/rand"
	"encoding/hex"
)

func NewID(prefix string) string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return prefix + hex.EncodeToString(b)
}

type Source string

const (
	SourceVoice Source = "voice"
	SourceChat  Source = "chat"
	SourceVAD   Source = "vad"
)

func (s Source) String() string {
	return string(s)
}
