package liketoggle

// State is the like status as the controller currently displays it.
type State int

const (
	StateLoading  State = iota // status query pending, both buttons hidden
	StateNotLiked              // like button shown
	StateLiked                 // unlike button shown
	StateFailed                // status query failed, error shown
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateNotLiked:
		return "not_liked"
	case StateLiked:
		return "liked"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func stateFor(liked bool) State {
	if liked {
		return StateLiked
	}
	return StateNotLiked
}

// Buttons is what a View has to draw.
type Buttons struct {
	LikeVisible   bool
	UnlikeVisible bool
	// Busy disables the visible button while a request is in flight.
	Busy bool
	// Err is the error affordance text, empty when there is nothing to report.
	Err string
}

// Visible returns the number of visible buttons.
func (b Buttons) Visible() int {
	n := 0
	if b.LikeVisible {
		n++
	}
	if b.UnlikeVisible {
		n++
	}
	return n
}

func buttonsFor(s State, busy bool, err error) Buttons {
	return Buttons{
		LikeVisible:   s == StateNotLiked,
		UnlikeVisible: s == StateLiked,
		Busy:          busy,
		Err:           affordance(err),
	}
}

// View draws the buttons. Render is called with the controller's lock held and
// must not call back into the controller.
type View interface {
	Render(Buttons)
}

// ViewFunc adapts a plain function to View.
type ViewFunc func(Buttons)

func (f ViewFunc) Render(b Buttons) { f(b) }
