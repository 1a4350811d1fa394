package users

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-resources/core"
	"github.com/goliatone/go-resources/store/memory"
	"golang.org/x/crypto/bcrypt"
)

func validUser() core.Record {
	return core.Record{
		FieldHandle:       " AdaL ",
		FieldFirstName:    "Ada",
		FieldLastName:     "Lovelace",
		FieldEmailAddress: " Ada@Example.COM ",
		FieldPassword:     " s3cret ",
	}
}

func TestCreate_NormalizesHashesAndProjects(t *testing.T) {
	controller, store := newUserController(t)
	ex := core.NewExchange(core.Request{Body: validUser()})
	if err := controller.Create(context.Background(), ex); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ex.Response.Status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", ex.Response.Status)
	}
	body := ex.Response.Body.(core.Record)
	if body[FieldHandle] != "adal" || body[FieldEmailAddress] != "ada@example.com" {
		t.Fatalf("expected normalized handle and email, got %v", body)
	}
	if _, ok := body[FieldPassword]; ok {
		t.Fatalf("expected password to be projected out")
	}
	if meta, ok := body[FieldMeta].(map[string]any); !ok || len(meta) != 0 {
		t.Fatalf("expected empty meta default, got %#v", body[FieldMeta])
	}

	stored, err := store.FindOne(context.Background(), core.Criteria{FieldHandle: "adal"}, nil)
	if err != nil || stored == nil {
		t.Fatalf("load stored user: %v", err)
	}
	hash, _ := stored[FieldPassword].(string)
	if hash == " s3cret " || !VerifyPassword(hash, " s3cret ") {
		t.Fatalf("expected bcrypt hash of the untrimmed password, got %q", hash)
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatalf("expected wrong password to fail verification")
	}
}

func TestCreate_ValidationFailures(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(core.Record)
		field string
	}{
		{name: "missing first name", edit: func(r core.Record) { delete(r, FieldFirstName) }, field: FieldFirstName},
		{name: "non alpha first name", edit: func(r core.Record) { r[FieldFirstName] = "Ada1" }, field: FieldFirstName},
		{name: "blank last name", edit: func(r core.Record) { r[FieldLastName] = "   " }, field: FieldLastName},
		{name: "bad email", edit: func(r core.Record) { r[FieldEmailAddress] = "not-an-email" }, field: FieldEmailAddress},
		{name: "missing password", edit: func(r core.Record) { delete(r, FieldPassword) }, field: FieldPassword},
		{name: "bad handle", edit: func(r core.Record) { r[FieldHandle] = "ada_l" }, field: FieldHandle},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			controller, store := newUserController(t)
			body := validUser()
			tc.edit(body)

			err := controller.Create(context.Background(), core.NewExchange(core.Request{Body: body}))
			var rich *goerrors.Error
			if !goerrors.As(err, &rich) {
				t.Fatalf("expected go-errors envelope, got %v", err)
			}
			if rich.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rich.Code)
			}
			fields := rich.AllValidationErrors()
			if len(fields) != 1 || fields[0].Field != tc.field {
				t.Fatalf("expected one %s error, got %#v", tc.field, fields)
			}
			if store.Len() != 0 {
				t.Fatalf("expected no insert on validation failure")
			}
		})
	}
}

func TestCreate_RejectsDuplicateEmail(t *testing.T) {
	controller, store := newUserController(t)
	ctx := context.Background()
	if err := controller.Create(ctx, core.NewExchange(core.Request{Body: validUser()})); err != nil {
		t.Fatalf("seed: %v", err)
	}

	second := validUser()
	second[FieldHandle] = "grace"
	second[FieldEmailAddress] = "ADA@example.com"
	err := controller.Create(ctx, core.NewExchange(core.Request{Body: second}))
	mapped := controller.MapError(err)
	if mapped == nil || mapped.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
	if !strings.Contains(mapped.Message, "Email Address") {
		t.Fatalf("unexpected duplicate message %q", mapped.Message)
	}
	if store.Len() != 1 {
		t.Fatalf("expected a single stored user, got %d", store.Len())
	}
}

func TestUpdate_ValidatesPatchAndRehashes(t *testing.T) {
	controller, store := newUserController(t)
	ctx := context.Background()
	if err := controller.Create(ctx, core.NewExchange(core.Request{Body: validUser()})); err != nil {
		t.Fatalf("seed: %v", err)
	}
	other := validUser()
	other[FieldHandle] = "grace"
	other[FieldEmailAddress] = "grace@example.com"
	if err := controller.Create(ctx, core.NewExchange(core.Request{Body: other})); err != nil {
		t.Fatalf("seed other: %v", err)
	}

	t.Run("partial patch", func(t *testing.T) {
		ex := core.NewExchange(core.Request{
			Params: map[string]string{core.ParamID: "adal"},
			Body:   core.Record{FieldLastName: " Byron ", FieldPassword: "n3w"},
		})
		if err := controller.Update(ctx, ex); err != nil {
			t.Fatalf("update: %v", err)
		}
		if ex.Response.Body.(core.Record)[FieldLastName] != "Byron" {
			t.Fatalf("expected trimmed last name, got %v", ex.Response.Body)
		}
		stored, _ := store.FindOne(ctx, core.Criteria{FieldHandle: "adal"}, nil)
		if !VerifyPassword(stored[FieldPassword].(string), "n3w") {
			t.Fatalf("expected new password hash")
		}
	})

	t.Run("keeps own email", func(t *testing.T) {
		ex := core.NewExchange(core.Request{
			Params: map[string]string{core.ParamID: "adal"},
			Body:   core.Record{FieldEmailAddress: "ada@example.com"},
		})
		if err := controller.Update(ctx, ex); err != nil {
			t.Fatalf("expected own email to be accepted, got %v", err)
		}
	})

	t.Run("keeps own email when addressed by any id spelling", func(t *testing.T) {
		stored, err := store.FindOne(ctx, core.Criteria{FieldHandle: "adal"}, nil)
		if err != nil || stored == nil {
			t.Fatalf("load stored user: %v", err)
		}
		id := fmt.Sprint(stored[core.DefaultIdentityField])
		for _, target := range []string{strings.ToUpper(id), "{" + id + "}"} {
			ex := core.NewExchange(core.Request{
				Params: map[string]string{core.ParamID: target},
				Body:   core.Record{FieldEmailAddress: "ada@example.com"},
			})
			if err := controller.Update(ctx, ex); err != nil {
				t.Fatalf("expected own email to be accepted for %q, got %v", target, err)
			}
		}
	})

	t.Run("taken email", func(t *testing.T) {
		ex := core.NewExchange(core.Request{
			Params: map[string]string{core.ParamID: "adal"},
			Body:   core.Record{FieldEmailAddress: "grace@example.com"},
		})
		err := controller.Update(ctx, ex)
		if mapped := controller.MapError(err); mapped == nil || mapped.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %v", err)
		}
	})

	t.Run("blank first name", func(t *testing.T) {
		ex := core.NewExchange(core.Request{
			Params: map[string]string{core.ParamID: "adal"},
			Body:   core.Record{FieldFirstName: ""},
		})
		err := controller.Update(ctx, ex)
		if mapped := controller.MapError(err); mapped == nil || mapped.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %v", err)
		}
	})
}

func TestHashPassword_RejectsNonString(t *testing.T) {
	r := New(memory.NewStore(), WithBcryptCost(bcrypt.MinCost))
	ex := core.NewExchange(core.Request{Body: core.Record{FieldPassword: 42}})
	if err := r.HashPassword(context.Background(), ex); err == nil {
		t.Fatalf("expected non-string password to fail")
	}
}

func TestVerifyPassword_EmptyHash(t *testing.T) {
	if VerifyPassword("", "anything") {
		t.Fatalf("expected empty hash to never verify")
	}
}

func newUserController(t *testing.T) (*core.Controller, *memory.Store) {
	t.Helper()
	store := memory.NewStore(memory.WithUniqueFields(FieldHandle))
	controller, err := New(store, WithBcryptCost(bcrypt.MinCost)).NewController()
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return controller, store
}
