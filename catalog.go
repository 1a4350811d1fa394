package resources

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/goliatone/go-resources/adapters/gologger"
	"github.com/goliatone/go-resources/core"
	"github.com/goliatone/go-resources/httpapi"
)

// Definition describes one resource to build into a catalog.
type Definition struct {
	Config  Config
	Store   ResourceStore
	Options []Option
}

// HookPack is a named set of hooks contributed to one resource. Packs are
// applied in name order.
type HookPack struct {
	Name     string
	Resource string
	Hooks    HookSet
}

type CatalogOption func(*Catalog)

// WithCatalogLoggerProvider names each controller logger after its resource.
func WithCatalogLoggerProvider(provider core.LoggerProvider) CatalogOption {
	return func(c *Catalog) {
		c.loggerProvider = provider
	}
}

// Catalog builds and indexes the controllers of an application by resource name.
type Catalog struct {
	mu sync.RWMutex

	loggerProvider core.LoggerProvider
	hookPacks      map[string]HookPack
	controllers    map[string]*Controller
}

func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{
		hookPacks:   map[string]HookPack{},
		controllers: map[string]*Controller{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// RegisterHookPack records pack. When its resource is already built the hooks
// are registered on the live controller and apply from the next compile.
func (c *Catalog) RegisterHookPack(pack HookPack) error {
	if c == nil {
		return fmt.Errorf("resources: catalog is nil")
	}
	name := strings.TrimSpace(pack.Name)
	resource := normalizeResourceName(pack.Resource)
	if name == "" {
		return fmt.Errorf("resources: hook pack name is required")
	}
	if resource == "" {
		return fmt.Errorf("resources: hook pack %q resource is required", name)
	}
	if len(pack.Hooks) == 0 {
		return fmt.Errorf("resources: hook pack %q has no hooks", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.hookPacks[name]; exists {
		return fmt.Errorf("resources: hook pack %q already registered", name)
	}
	if controller, ok := c.controllers[resource]; ok {
		if err := controller.Registry().RegisterAll(pack.Hooks); err != nil {
			return err
		}
	}
	c.hookPacks[name] = HookPack{Name: name, Resource: resource, Hooks: pack.Hooks}
	return nil
}

// Register builds the controller for def with every hook pack already
// recorded for its resource.
func (c *Catalog) Register(def Definition) (*Controller, error) {
	if c == nil {
		return nil, fmt.Errorf("resources: catalog is nil")
	}
	resource := normalizeResourceName(def.Config.ResourceName)
	if resource == "" {
		return nil, fmt.Errorf("resources: resource name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.controllers[resource]; exists {
		return nil, fmt.Errorf("resources: resource %q already registered", resource)
	}

	opts := make([]Option, 0, len(def.Options)+len(c.hookPacks)+1)
	if c.loggerProvider != nil {
		_, logger := gologger.ResolveForResource(resource, c.loggerProvider, nil)
		opts = append(opts, core.WithLogger(logger))
	}
	opts = append(opts, def.Options...)
	for _, pack := range c.packsFor(resource) {
		opts = append(opts, core.WithHooks(pack.Hooks))
	}

	controller, err := core.NewController(def.Config, def.Store, opts...)
	if err != nil {
		return nil, err
	}
	c.controllers[resource] = controller
	return controller, nil
}

func (c *Catalog) Controller(resource string) (*Controller, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	controller, ok := c.controllers[normalizeResourceName(resource)]
	return controller, ok
}

// Facade wraps the named controller in commands and queries.
func (c *Catalog) Facade(resource string) (*Facade, error) {
	controller, ok := c.Controller(resource)
	if !ok {
		return nil, fmt.Errorf("resources: resource %q is not registered", resource)
	}
	return NewFacade(controller)
}

// Mount attaches every controller under "/<plural name>".
func (c *Catalog) Mount(r chi.Router, opts ...httpapi.Option) error {
	if c == nil {
		return fmt.Errorf("resources: catalog is nil")
	}
	if r == nil {
		return fmt.Errorf("resources: router is required")
	}
	for _, name := range c.Names() {
		controller, _ := c.Controller(name)
		httpapi.Mount(r, "/"+controller.PluralName(), controller, opts...)
	}
	return nil
}

func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.controllers))
	for name := range c.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HookPacks lists the packs recorded for resource in application order.
func (c *Catalog) HookPacks(resource string) []HookPack {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.packsFor(normalizeResourceName(resource))
}

func (c *Catalog) packsFor(resource string) []HookPack {
	names := make([]string, 0, len(c.hookPacks))
	for name, pack := range c.hookPacks {
		if pack.Resource == resource {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]HookPack, 0, len(names))
	for _, name := range names {
		out = append(out, c.hookPacks[name])
	}
	return out
}

func normalizeResourceName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
