package query

// Status is the tag of a State.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusReady:
		return "ready"
	default:
		return "idle"
	}
}

// State is what a view sees for one key. Only the constructors below build
// one, so a state never carries both data and an error.
type State[T any] struct {
	status Status
	data   T
	err    error
	stale  bool
}

func Idle[T any]() State[T] { return State[T]{status: StatusIdle} }

func Loading[T any]() State[T] { return State[T]{status: StatusLoading} }

func Failed[T any](err error) State[T] { return State[T]{status: StatusError, err: err} }

func Ready[T any](data T, stale bool) State[T] {
	return State[T]{status: StatusReady, data: data, stale: stale}
}

func (s State[T]) Status() Status { return s.status }

// Data returns the value and whether the state is ready.
func (s State[T]) Data() (T, bool) { return s.data, s.status == StatusReady }

func (s State[T]) Err() error { return s.err }

// Stale reports a ready value that is past its freshness window.
func (s State[T]) Stale() bool { return s.status == StatusReady && s.stale }
