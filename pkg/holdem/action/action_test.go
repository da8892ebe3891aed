package action

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestFromString(t *testing.T) {
	assertAction := func(t *testing.T, id string, action Action, name string) {
		t.Helper()

		a, err := FromString(id)
		assert.NoError(t, err)
		assert.Equal(t, action, a)
		assert.Equal(t, name, a.String())
	}

	assertAction(t, "fold", Fold, "Fold")
	assertAction(t, "check", Check, "Check")
	assertAction(t, "call", Call, "Call")
	assertAction(t, "raise", Raise, "Raise")

	_, err := FromString("bet")
	assert.EqualError(t, err, "unknown action for identifier: bet")

	_, err = FromString("")
	assert.EqualError(t, err, "unknown action for identifier: ")
}

func TestAction_LogMessage(t *testing.T) {
	a := assert.New(t)
	a.Equal("folded", Fold.LogMessage(0))
	a.Equal("checked", Check.LogMessage(0))
	a.Equal("called ${50}", Call.LogMessage(50))
	a.Equal("raised to ${200}", Raise.LogMessage(200))
}
