package connector

// State tracks where a connection attempt stands. An attempt moves
// strictly forward: idle, connecting, optionally writing initial bytes,
// handshaking, done.
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateWritingInitial
	StateHandshaking
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateWritingInitial:
		return "writing-initial"
	case StateHandshaking:
		return "handshaking"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
