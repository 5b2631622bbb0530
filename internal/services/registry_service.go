package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"guard-collective/gatekeeper/internal/models/dtos"
)

var (
	ErrCommandUnknown       = errors.New("command is not known to the registry")
	ErrCommandAlreadyLoaded = errors.New("command is already loaded")
	ErrCommandNotLoaded     = errors.New("command is not loaded")
)

type commandEntry struct {
	description string
	loaded      bool
}

// CommandRegistry tracks the named command surfaces the front-end exposes and
// whether each is currently loaded. The known set is fixed at construction;
// load state changes at runtime.
type CommandRegistry struct {
	mu       sync.RWMutex
	commands map[string]*commandEntry
}

// NewCommandRegistry builds a registry from the known command set, all loaded.
func NewCommandRegistry(known map[string]string) *CommandRegistry {
	commands := make(map[string]*commandEntry, len(known))
	for name, description := range known {
		commands[name] = &commandEntry{description: description, loaded: true}
	}
	return &CommandRegistry{commands: commands}
}

// Load marks a known command as active.
func (r *CommandRegistry) Load(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, known := r.commands[name]
	if !known {
		return fmt.Errorf("%q: %w", name, ErrCommandUnknown)
	}
	if entry.loaded {
		return fmt.Errorf("%q: %w", name, ErrCommandAlreadyLoaded)
	}
	entry.loaded = true
	return nil
}

// Unload deactivates a loaded command.
func (r *CommandRegistry) Unload(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, known := r.commands[name]
	if !known {
		return fmt.Errorf("%q: %w", name, ErrCommandUnknown)
	}
	if !entry.loaded {
		return fmt.Errorf("%q: %w", name, ErrCommandNotLoaded)
	}
	entry.loaded = false
	return nil
}

// Reload cycles a loaded command. A command that is not loaded cannot be
// reloaded.
func (r *CommandRegistry) Reload(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, known := r.commands[name]
	if !known {
		return fmt.Errorf("%q: %w", name, ErrCommandUnknown)
	}
	if !entry.loaded {
		return fmt.Errorf("%q: %w", name, ErrCommandNotLoaded)
	}
	return nil
}

// IsLoaded reports whether a command is known and active.
func (r *CommandRegistry) IsLoaded(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, known := r.commands[name]
	return known && entry.loaded
}

// List returns every known command, sorted by name.
func (r *CommandRegistry) List() []dtos.RegistryCommandView {
	r.mu.RLock()
	defer r.mu.RUnlock()

	views := make([]dtos.RegistryCommandView, 0, len(r.commands))
	for name, entry := range r.commands {
		views = append(views, dtos.RegistryCommandView{
			Name:        name,
			Description: entry.description,
			Loaded:      entry.loaded,
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	return views
}
