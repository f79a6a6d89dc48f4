package eventpubsub

import (
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/mean-reversion-trader/src/indicators"
	"github.com/jiaming2012/mean-reversion-trader/src/models"
)

type Bus struct {
	bus EventBus.Bus
}

func NewBus() *Bus {
	return &Bus{
		bus: EventBus.New(),
	}
}

func (b *Bus) Publish(topic string, args ...interface{}) {
	b.bus.Publish(topic, args...)
}

// Subscribe registers a synchronous handler: Publish returns after every handler ran.
func (b *Bus) Subscribe(topic string, callbackFn interface{}) error {
	if err := b.bus.Subscribe(topic, callbackFn); err != nil {
		return err
	}

	log.Debugf("Subscribed to topic %s", topic)
	return nil
}

func (b *Bus) SubscribeAsync(topic string, callbackFn interface{}) error {
	if err := b.bus.SubscribeAsync(topic, callbackFn, true); err != nil {
		return err
	}

	log.Debugf("Subscribed async to topic %s", topic)
	return nil
}

// WaitAsync blocks until every async handler has returned.
func (b *Bus) WaitAsync() {
	b.bus.WaitAsync()
}

// SignalEvent is published on SignalTransitionEvent for every non-NONE signal of the live loop.
type SignalEvent struct {
	Symbol     string
	Candle     *models.Candle
	Transition models.Transition
	EntryBands indicators.BollingerBands
}
