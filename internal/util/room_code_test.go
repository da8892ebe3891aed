package util

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"pokerroom-server/internal/rng"
)

func TestRoomCode(t *testing.T) {
	a := assert.New(t)

	prev := roomCodeRand
	defer func() { roomCodeRand = prev }()
	roomCodeRand = rng.Seeded(0)

	code := RoomCode()
	a.Len(code, 6)
	a.Regexp(regexp.MustCompile(`^[A-HJKMNP-Z2-9]{6}$`), code)
	a.NotEqual(code, RoomCode())
}
