package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-resources/core"
	"golang.org/x/crypto/bcrypt"
)

const ResourceName = "user"

const (
	FieldHandle       = "handle"
	FieldFirstName    = "firstName"
	FieldLastName     = "lastName"
	FieldEmailAddress = "emailAddress"
	FieldPassword     = "password"
	FieldCreatedBy    = "createdBy"
	FieldMeta         = "meta"
)

const duplicateEmailMessage = "Email Address is already being used by someone else"

type Option func(*Resource)

// WithIdentityResolver sets the rule used to recognise the user addressed by
// the id parameter. NewController replaces it with the controller's own rule.
func WithIdentityResolver(resolver core.IdentityResolver) Option {
	return func(r *Resource) {
		r.resolver = resolver
	}
}

// WithBcryptCost sets the hashing cost. Out of range values keep the default.
func WithBcryptCost(cost int) Option {
	return func(r *Resource) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			r.cost = cost
		}
	}
}

// Resource holds the user hooks. The store is used for email uniqueness checks
// and must be the same store the controller writes to.
type Resource struct {
	store    core.ResourceStore
	cost     int
	resolver core.IdentityResolver
}

func New(store core.ResourceStore, opts ...Option) *Resource {
	r := &Resource{
		store:    store,
		cost:     bcrypt.DefaultCost,
		resolver: core.IdentityResolver{Parser: core.UUIDIdentityParser{}},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Config is the controller configuration for users.
func (r *Resource) Config() core.Config {
	return core.Config{ResourceName: ResourceName}
}

// Hooks returns the user hook set in registration order.
func (r *Resource) Hooks() core.HookSet {
	return core.HookSet{
		core.StageNormalize: {
			core.OperationCreate: {core.HookFunc(r.NormalizeCreate)},
			core.OperationUpdate: {core.HookFunc(r.Normalize)},
		},
		core.StagePre: {
			core.OperationCreate: {
				core.HookFunc(r.ValidateCreate),
				core.HookFunc(r.EnsureUniqueEmail),
				core.HookFunc(r.HashPassword),
			},
			core.OperationUpdate: {
				core.HookFunc(r.ValidateUpdate),
				core.HookFunc(r.EnsureUniqueEmail),
				core.HookFunc(r.HashPassword),
			},
		},
	}
}

// NewController builds a user controller over the resource store with the
// user hooks registered after any hooks passed in opts.
func (r *Resource) NewController(opts ...core.Option) (*core.Controller, error) {
	opts = append(opts, core.WithHooks(r.Hooks()))
	controller, err := core.NewController(r.Config(), r.store, opts...)
	if err != nil {
		return nil, err
	}
	r.resolver = controller.Resolver()
	return controller, nil
}

func NewController(store core.ResourceStore, opts ...core.Option) (*core.Controller, error) {
	return New(store).NewController(opts...)
}

// Normalize trims string fields and lowercases the handle and email address.
func (r *Resource) Normalize(_ context.Context, ex *core.Exchange) error {
	body := ex.Request.Body
	for key, value := range body {
		if key == FieldPassword {
			continue
		}
		if s, ok := value.(string); ok {
			body[key] = strings.TrimSpace(s)
		}
	}
	for _, key := range []string{FieldHandle, FieldEmailAddress} {
		if s, ok := body[key].(string); ok {
			body[key] = strings.ToLower(s)
		}
	}
	return nil
}

// NormalizeCreate also defaults meta to an empty object.
func (r *Resource) NormalizeCreate(ctx context.Context, ex *core.Exchange) error {
	if err := r.Normalize(ctx, ex); err != nil {
		return err
	}
	if meta, ok := ex.Request.Body[FieldMeta]; !ok || meta == nil {
		ex.Request.Body[FieldMeta] = map[string]any{}
	}
	return nil
}

func (r *Resource) ValidateCreate(_ context.Context, ex *core.Exchange) error {
	return validateRecord(ex.Request.Body, createRules())
}

func (r *Resource) ValidateUpdate(_ context.Context, ex *core.Exchange) error {
	return validateRecord(ex.Request.Body, updateRules())
}

// EnsureUniqueEmail rejects an email address held by another user. On update
// the record addressed by the id parameter may keep its own address.
func (r *Resource) EnsureUniqueEmail(ctx context.Context, ex *core.Exchange) error {
	email, ok := ex.Request.Body[FieldEmailAddress].(string)
	if !ok || email == "" {
		return nil
	}
	if r.store == nil {
		return fmt.Errorf("users: store is required for email uniqueness")
	}

	existing, err := r.store.FindOne(ctx, core.Criteria{FieldEmailAddress: email}, nil)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	if target := ex.Param(core.ParamID); target != "" && r.resolver.Matches(existing, target) {
		return nil
	}
	return core.NewDuplicateError(duplicateEmailMessage).
		WithMetadata(map[string]any{"field": FieldEmailAddress})
}

// HashPassword replaces a plain-text password with its bcrypt hash.
func (r *Resource) HashPassword(_ context.Context, ex *core.Exchange) error {
	raw, ok := ex.Request.Body[FieldPassword]
	if !ok || raw == nil {
		return nil
	}
	password, ok := raw.(string)
	if !ok {
		return core.NewBadInputError("password must be a string")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return core.NewBadInputError(fmt.Sprintf("password could not be hashed: %v", err))
	}
	ex.Request.Body[FieldPassword] = string(hash)
	return nil
}

// VerifyPassword reports whether candidate matches the stored bcrypt hash.
func VerifyPassword(hash, candidate string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
