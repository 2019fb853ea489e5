package viewmodel

// ShellPage holds data for the TV and player page shells. The shells fetch
// everything else from the snapshot API.
type ShellPage struct {
	Title          string
	Role           string
	JoinURL        string
	StatePath      string
	StreamPath     string
	PollIntervalMs int64
}

// CheckoutPage holds data for the mock payment page.
type CheckoutPage struct {
	Title        string
	CheckoutID   string
	Status       string
	Open         bool
	PaidPath     string
	CanceledPath string
}
