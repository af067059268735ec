// Package strategy describes which trading strategy a balance change
// or reservation belongs to, so that several strategies can share one
// exchange account without their accounting mixing.
package strategy

// Descriptor identifies the configuration of a trading strategy. It is
// used to partition virtual balance diffs and P&L records so several
// strategies can share one exchange account.
type Descriptor struct {
	ServiceName             string
	ServiceConfigurationKey string
}

// New builds a Descriptor.
func New(serviceName, serviceConfigurationKey string) Descriptor {
	return Descriptor{ServiceName: serviceName, ServiceConfigurationKey: serviceConfigurationKey}
}

// String renders the descriptor for logging.
func (d Descriptor) String() string {
	return d.ServiceName + ";" + d.ServiceConfigurationKey
}
