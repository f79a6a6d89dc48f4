package eventpubsub

const (
	SignalTransitionEvent = "signal:transition"
	OrderFailedEvent      = "order:failed"
)
