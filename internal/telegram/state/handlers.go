package state

import (
	tele "gopkg.in/telebot.v4"
)

// fsmHandlers maps an FSM state to the handler invoked for the next
// plain-text message while the user is in that state.
var fsmHandlers = make(map[State]tele.HandlerFunc)

// RegisterHandler binds a handler to an FSM state. Registration happens at
// startup before the bot begins processing updates, so no locking is needed.
func RegisterHandler(st State, h tele.HandlerFunc) {
	fsmHandlers[st] = h
}
