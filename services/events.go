package services

import "go.uber.org/zap"

// Fact is something that happened and is worth telling the outside world
// about (email, webhooks). Services collect facts during a use case and hand
// them to the Notifier once the surrounding transaction has committed;
// entities never carry event lists.
type Fact struct {
	Name    string
	Payload map[string]any
}

type Notifier interface {
	Publish(facts []Fact)
}

// LogNotifier is the default dispatcher: it logs each fact. Real delivery
// (email, queues) plugs in behind the same interface.
type LogNotifier struct {
	Log *zap.Logger
}

func (n *LogNotifier) Publish(facts []Fact) {
	for _, fact := range facts {
		n.Log.Info("domain fact", zap.String("fact", fact.Name), zap.Any("payload", fact.Payload))
	}
}

// NopNotifier drops facts; used where no dispatch is wanted.
type NopNotifier struct{}

func (NopNotifier) Publish([]Fact) {}
