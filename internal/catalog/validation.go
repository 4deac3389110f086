// movie-catalog/internal/catalog/validation.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"movie-catalog/internal/domain"
)

// Validator runs explicit field-by-field precondition checks on write requests.
// It reports the first violated constraint as a *domain.ValidationError.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() (*Validator, error) {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("register notblank: %w", err)
	}
	return &Validator{validate: v}, nil
}

type fieldRule struct {
	field string
	value any
	tags  string
}

// requiredInt turns an absent integer into a "required" violation.
func requiredInt(field string, v *int, tags string) fieldRule {
	if v == nil {
		return fieldRule{field: field, tags: "required"}
	}
	return fieldRule{field: field, value: *v, tags: tags}
}

// optionalString skips the rule entirely when the value is absent.
func optionalString(field string, v *string, tags string) (fieldRule, bool) {
	if v == nil {
		return fieldRule{}, false
	}
	return fieldRule{field: field, value: *v, tags: tags}, true
}

func (v *Validator) check(ctx context.Context, rules ...fieldRule) error {
	for _, r := range rules {
		if r.value == nil {
			return domain.NewValidationError(r.field, r.tags)
		}
		err := v.validate.VarCtx(ctx, r.value, r.tags)
		if err == nil {
			continue
		}
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return domain.NewValidationError(r.field, constraint(fieldErrs[0]))
		}
		return fmt.Errorf("validate %s: %w", r.field, err)
	}
	return nil
}

func constraint(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

func (v *Validator) ValidateDirector(ctx context.Context, req domain.CreateDirectorRequest) error {
	return v.check(ctx,
		fieldRule{field: "name", value: req.Name, tags: "notblank,max=100"},
		requiredInt("birthYear", req.BirthYear, "gte=1700,lte=2015"),
		fieldRule{field: "country", value: req.Country, tags: "notblank,max=100"},
	)
}

func (v *Validator) ValidateMovie(ctx context.Context, req domain.CreateMovieRequest) error {
	rules := []fieldRule{
		{field: "title", value: req.Title, tags: "notblank,max=100"},
		{field: "genre", value: req.Genre, tags: "notblank,max=100"},
		requiredInt("releaseYear", req.ReleaseYear, "gte=1700,lte=2025"),
	}
	if r, ok := optionalString("description", req.Description, "max=1000"); ok {
		rules = append(rules, r)
	}
	rules = append(rules, fieldRule{field: "directorId", value: req.DirectorID, tags: "notblank"})
	if r, ok := optionalString("imageUrl", req.ImageURL, "omitempty,max=2048"); ok {
		rules = append(rules, r)
	}
	return v.check(ctx, rules...)
}

func (v *Validator) ValidateReview(ctx context.Context, req domain.CreateReviewRequest) error {
	rules := []fieldRule{
		{field: "userName", value: req.UserName, tags: "notblank,min=3,max=100"},
		requiredInt("rating", req.Rating, "gte=1,lte=10"),
	}
	if r, ok := optionalString("comment", req.Comment, "max=1000"); ok {
		rules = append(rules, r)
	}
	rules = append(rules, fieldRule{field: "movieId", value: req.MovieID, tags: "notblank"})
	return v.check(ctx, rules...)
}
