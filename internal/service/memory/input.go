package memory

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/uAvicii/0718/internal/domain"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func inputValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return strings.ToLower(fld.Name)
		})
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return domain.Category(fl.Field().String()).IsValid()
		})
		// An empty mood is absent on create and clears the mood on update.
		_ = v.RegisterValidation("mood", func(fl validator.FieldLevel) bool {
			m := domain.Mood(fl.Field().String())
			return m == "" || m.IsValid()
		})
		validate = v
	})
	return validate
}

// CreateInput holds the parameters for creating a memory.
// Validate expects a normalized input (see Normalize).
type CreateInput struct {
	Title    string          `validate:"required,max=255"`
	Content  string          `validate:"required"`
	Date     time.Time       `validate:"required"`
	Category domain.Category `validate:"required,category"`
	Mood     domain.Mood     `validate:"omitempty,mood"`
	Location *string         `validate:"omitempty,max=255"`
	Weather  *string         `validate:"omitempty,max=100"`
	Music    *string         `validate:"omitempty,max=255"`
	Quote    *string         `validate:"omitempty,max=1000"`
	Tags     []string        `validate:"max=50,dive,max=64"`
	People   []string        `validate:"max=100,dive,max=100"`
	Images   []string        `validate:"max=100,dive,max=2048"`
}

// Normalize trims text, drops empty optional fields, dedupes tags and people
// and defaults the category to "other".
func (i CreateInput) Normalize() CreateInput {
	i.Title = strings.TrimSpace(i.Title)
	i.Content = strings.TrimSpace(i.Content)
	if strings.TrimSpace(string(i.Category)) == "" {
		i.Category = domain.CategoryOther
	}
	i.Location = trimOrNil(i.Location)
	i.Weather = trimOrNil(i.Weather)
	i.Music = trimOrNil(i.Music)
	i.Quote = trimOrNil(i.Quote)
	i.Tags = domain.NormalizeList(i.Tags)
	i.People = domain.NormalizeList(i.People)
	i.Images = domain.CompactList(i.Images)
	return i
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	return toValidationError(inputValidator().Struct(i))
}

// UpdateInput holds a partial update. Nil fields are left unchanged; an empty
// string on an optional field clears it.
type UpdateInput struct {
	Title    *string          `validate:"omitnil,max=255"`
	Content  *string          `validate:"omitnil"`
	Date     *time.Time       `validate:"omitnil"`
	Category *domain.Category `validate:"omitnil,category"`
	Mood     *domain.Mood     `validate:"omitnil,mood"`
	Location *string          `validate:"omitnil,max=255"`
	Weather  *string          `validate:"omitnil,max=100"`
	Music    *string          `validate:"omitnil,max=255"`
	Quote    *string          `validate:"omitnil,max=1000"`
	Tags     *[]string        `validate:"omitnil,max=50,dive,max=64"`
	People   *[]string        `validate:"omitnil,max=100,dive,max=100"`
	Images   *[]string        `validate:"omitnil,max=100,dive,max=2048"`
}

// Normalize trims the provided fields the same way CreateInput does.
func (i UpdateInput) Normalize() UpdateInput {
	i.Title = trimPtr(i.Title)
	i.Content = trimPtr(i.Content)
	i.Location = trimPtr(i.Location)
	i.Weather = trimPtr(i.Weather)
	i.Music = trimPtr(i.Music)
	i.Quote = trimPtr(i.Quote)
	if i.Tags != nil {
		tags := domain.NormalizeList(*i.Tags)
		i.Tags = &tags
	}
	if i.People != nil {
		people := domain.NormalizeList(*i.People)
		i.People = &people
	}
	if i.Images != nil {
		images := domain.CompactList(*i.Images)
		i.Images = &images
	}
	return i
}

// Validate checks all fields and collects all errors. Title and content may be
// omitted but not blanked, and a provided date must be set.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.Title != nil && *i.Title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if i.Content != nil && *i.Content == "" {
		errs = append(errs, domain.FieldError{Field: "content", Message: "required"})
	}
	if i.Date != nil && i.Date.IsZero() {
		errs = append(errs, domain.FieldError{Field: "date", Message: "required"})
	}

	if err := toValidationError(inputValidator().Struct(i)); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			errs = append(errs, ve.Errors...)
		} else {
			return err
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Patch converts the input into a domain patch.
func (i UpdateInput) Patch() domain.MemoryPatch {
	return domain.MemoryPatch{
		Title:    i.Title,
		Content:  i.Content,
		Date:     i.Date,
		Category: i.Category,
		Mood:     i.Mood,
		Location: i.Location,
		Weather:  i.Weather,
		Music:    i.Music,
		Quote:    i.Quote,
		Tags:     i.Tags,
		People:   i.People,
		Images:   i.Images,
	}
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate input: %w", err)
	}

	errs := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, domain.FieldError{Field: fieldName(fe), Message: fieldMessage(fe)})
	}
	return &domain.ValidationError{Errors: errs}
}

// fieldName turns "Tags[3]" namespaces into "tags[3]" and plain fields into their lowercase name.
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "max":
		if fe.Kind() == reflect.Slice {
			return "max " + fe.Param() + " items"
		}
		return "max " + fe.Param() + " characters"
	case "category":
		return "must be one of " + joinEnum(domain.Categories)
	case "mood":
		return "must be one of " + joinEnum(domain.Moods)
	}
	return "invalid value"
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// trimPtr trims whitespace but keeps an empty result so it can clear a field.
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
