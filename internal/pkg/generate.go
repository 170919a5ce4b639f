package pkg

import "crypto/rand"

const (
	roomCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	roomCodeLength   = 6
)

// GenerateRoomCode - generates a 6-character room code drawn from [0-9A-Z].
// Uniqueness against live rooms is the registry's job, not ours.
func GenerateRoomCode() string {
	buf := make([]byte, roomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}

	for i, b := range buf {
		buf[i] = roomCodeAlphabet[int(b)%len(roomCodeAlphabet)]
	}

	return string(buf)
}
