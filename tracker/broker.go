package tracker

import (
	"time"
)

type (
	// Broker carries the messages from the background goroutines (exporters,
	// the autosave timer) to the goroutine owning the model. At the moment it
	// is just many-to-one communication with a single channel.
	//
	// Nothing else than the owner may touch the model: the other goroutines
	// post a MsgToModel, and the owner passes the messages it receives to
	// Model.ProcessMsg.
	Broker struct {
		ToModel chan MsgToModel
	}

	// MsgToModel is a message sent to the model. Data is an Alert, a
	// SaveRecoveryMsg or a func() that gets executed in the owner goroutine.
	MsgToModel struct {
		Data any
	}

	// SaveRecoveryMsg asks the model to write its recovery file, if anything
	// changed since the last write.
	SaveRecoveryMsg struct{}
)

func NewBroker() *Broker {
	return &Broker{
		ToModel: make(chan MsgToModel, 1024),
	}
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from a
// channel, or timing out after t. ok will be false if the timeout occurred or
// if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
