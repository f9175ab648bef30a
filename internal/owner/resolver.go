// Package owner maps services to the people responsible for them.
package owner

import "github.com/Egor213/ExceptionSieve/internal/config"

type Resolver struct {
	defaultOwner string
	owners       map[string]string
	chatIDs      map[string]string
}

func NewResolver(cfg config.Responsibility) *Resolver {
	return &Resolver{
		defaultOwner: cfg.DefaultOwner,
		owners:       cfg.ServiceOwners,
		chatIDs:      cfg.ChatIDs,
	}
}

func (r *Resolver) OwnerFor(service string) string {
	if o, ok := r.owners[service]; ok && o != "" {
		return o
	}
	return r.defaultOwner
}

// ChatIDFor returns the chat handle used to mention owner, or "" when unknown.
func (r *Resolver) ChatIDFor(owner string) string {
	return r.chatIDs[owner]
}
