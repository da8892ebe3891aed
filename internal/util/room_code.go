package util

import (
	"pokerroom-server/internal/rng"
)

// roomCodeLength is the length of a generated room code
const roomCodeLength = 6

// roomCodeAlphabet omits characters that read ambiguously (0/O, 1/I/L)
const roomCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

var roomCodeRand rng.Generator = rng.Crypto{}

// RoomCode returns a short room code, unpredictable enough that codes
// cannot be guessed by walking the keyspace
func RoomCode() string {
	code := make([]byte, roomCodeLength)
	for i := range code {
		code[i] = roomCodeAlphabet[roomCodeRand.Intn(len(roomCodeAlphabet))]
	}

	return string(code)
}
