package users

import (
	"errors"
	"net/http"
	"regexp"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-resources/core"
)

var (
	alphaPattern  = regexp.MustCompile(`^[A-Za-z]+$`)
	handlePattern = regexp.MustCompile(`^[a-z0-9]+$`)
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func createRules() []*validation.KeyRules {
	return []*validation.KeyRules{
		validation.Key(FieldHandle, validation.Match(handlePattern).Error("must be lowercase letters and digits")).Optional(),
		validation.Key(FieldFirstName, validation.Required, validation.Match(alphaPattern).Error("must contain letters only")),
		validation.Key(FieldLastName, validation.Required),
		validation.Key(FieldEmailAddress, validation.Required, validation.Match(emailPattern).Error("must be a valid email address")),
		validation.Key(FieldPassword, validation.Required),
	}
}

// updateRules validate only the fields present in the patch.
func updateRules() []*validation.KeyRules {
	rules := createRules()
	for i := range rules {
		rules[i] = rules[i].Optional()
	}
	return rules
}

func validateRecord(record core.Record, rules []*validation.KeyRules) error {
	err := validation.Validate(map[string]any(record), validation.Map(rules...).AllowExtraKeys())
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return core.NewBadInputError(err.Error())
	}
	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make([]goerrors.FieldError, 0, len(fields))
	for _, field := range fields {
		details = append(details, goerrors.FieldError{
			Field:   field,
			Message: fieldErrs[field].Error(),
		})
	}
	return goerrors.NewValidation("user: validation failed", details...).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.ResourceErrorBadInput).
		WithSeverity(goerrors.SeverityError)
}
