package seeder

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/uAvicii/0718/internal/domain"
	"github.com/uAvicii/0718/internal/service/memory"
)

//go:embed data/default.yaml
var defaultFixture []byte

// Fixture is a YAML document describing a profile and a set of memories.
type Fixture struct {
	Profile  *ProfileFixture `yaml:"profile"`
	Memories []MemoryFixture `yaml:"memories"`
}

// ProfileFixture is the YAML form of the owner profile.
type ProfileFixture struct {
	Name          string `yaml:"name"`
	AvatarURL     string `yaml:"avatar_url"`
	Bio           string `yaml:"bio"`
	BirthDate     string `yaml:"birth_date"`
	FavoriteQuote string `yaml:"favorite_quote"`
}

// MemoryFixture is the YAML form of one memory. Dates use the 2006-01-02 layout;
// CreatedAt is RFC 3339 and defaults to the seeding time.
type MemoryFixture struct {
	Title     string    `yaml:"title"`
	Content   string    `yaml:"content"`
	Date      string    `yaml:"date"`
	Category  string    `yaml:"category"`
	Mood      string    `yaml:"mood"`
	Location  string    `yaml:"location"`
	Weather   string    `yaml:"weather"`
	Music     string    `yaml:"music"`
	Quote     string    `yaml:"quote"`
	Tags      []string  `yaml:"tags"`
	People    []string  `yaml:"people"`
	Images    []string  `yaml:"images"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Default returns the bundled sample collection.
func Default() (*Fixture, error) {
	return Parse(defaultFixture)
}

// LoadFile reads and parses a fixture file.
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a fixture document. Unknown keys are rejected.
func Parse(data []byte) (*Fixture, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// ProfileUser converts the profile section into a domain user. It returns
// nil when the fixture carries no profile.
func (f *Fixture) ProfileUser() (*domain.User, error) {
	if f.Profile == nil {
		return nil, nil
	}
	p := f.Profile
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, domain.NewValidationError("profile.name", "required")
	}

	u := &domain.User{
		Name:          name,
		AvatarURL:     domain.OptionalString(strings.TrimSpace(p.AvatarURL)),
		Bio:           domain.OptionalString(strings.TrimSpace(p.Bio)),
		FavoriteQuote: domain.OptionalString(strings.TrimSpace(p.FavoriteQuote)),
	}
	if p.BirthDate != "" {
		d, err := time.Parse(domain.DateLayout, p.BirthDate)
		if err != nil {
			return nil, domain.NewValidationError("profile.birth_date", "must be YYYY-MM-DD")
		}
		u.BirthDate = &d
	}
	return u, nil
}

// Records converts and validates every memory. All invalid entries are
// reported together, prefixed with their index. Entries without created_at
// are stamped with now. IDs are left for the caller to assign.
func (f *Fixture) Records(now time.Time) ([]domain.Memory, error) {
	out := make([]domain.Memory, 0, len(f.Memories))
	var errs []domain.FieldError

	for i, mf := range f.Memories {
		in, err := mf.input()
		if err != nil {
			errs = append(errs, prefixed(i, err)...)
			continue
		}
		in = in.Normalize()
		if err := in.Validate(); err != nil {
			errs = append(errs, prefixed(i, err)...)
			continue
		}

		created := mf.CreatedAt
		if created.IsZero() {
			created = now
		}
		out = append(out, domain.Memory{
			Title:     in.Title,
			Content:   in.Content,
			Date:      in.Date,
			Category:  in.Category,
			Mood:      in.Mood,
			Location:  in.Location,
			Weather:   in.Weather,
			Music:     in.Music,
			Quote:     in.Quote,
			Tags:      in.Tags,
			People:    in.People,
			Images:    in.Images,
			CreatedAt: created.UTC(),
			UpdatedAt: created.UTC(),
		})
	}

	if len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}
	return out, nil
}

func (mf MemoryFixture) input() (memory.CreateInput, error) {
	date, err := time.Parse(domain.DateLayout, mf.Date)
	if err != nil {
		return memory.CreateInput{}, domain.NewValidationError("date", "must be YYYY-MM-DD")
	}
	return memory.CreateInput{
		Title:    mf.Title,
		Content:  mf.Content,
		Date:     date,
		Category: domain.Category(mf.Category),
		Mood:     domain.Mood(mf.Mood),
		Location: domain.OptionalString(mf.Location),
		Weather:  domain.OptionalString(mf.Weather),
		Music:    domain.OptionalString(mf.Music),
		Quote:    domain.OptionalString(mf.Quote),
		Tags:     mf.Tags,
		People:   mf.People,
		Images:   mf.Images,
	}, nil
}

func prefixed(i int, err error) []domain.FieldError {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return []domain.FieldError{{Field: fmt.Sprintf("memories[%d]", i), Message: err.Error()}}
	}
	out := make([]domain.FieldError, len(ve.Errors))
	for j, fe := range ve.Errors {
		out[j] = domain.FieldError{Field: fmt.Sprintf("memories[%d].%s", i, fe.Field), Message: fe.Message}
	}
	return out
}
