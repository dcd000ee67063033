package bootstrap

import (
	"errors"
	"fmt"

	"github.com/tracelight/tracelight/pkg/registry"
)

const applyLogPrefix = "bootstrap:apply"

// Apply registers every defined channel and turns on the ones marked
// enabled. A definition for a channel something else already registered
// (the built-in http channel, typically) only applies the enabled flag.
// Any other registration failure stops the apply.
func Apply(cfg *ChannelsConfig, reg *registry.Registry) error {
	for _, def := range cfg.Channels {
		if err := reg.Register(def.Name, def.Description); err != nil {
			var chanErr *registry.ChannelError
			if !errors.As(err, &chanErr) || chanErr.Code != registry.CodeDuplicateChannel {
				return fmt.Errorf("%s - register channel %q: %w", applyLogPrefix, def.Name, err)
			}
		}
		if def.Enabled {
			reg.SetEnabled(def.Name, true)
		}
	}
	return nil
}
