package extract

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/reelfind/reelfind/internal/domain"
)

type fakeExtractor struct {
	entities []domain.Entity
	err      error
	gotText  string
}

func (f *fakeExtractor) ExtractEntities(_ context.Context, text string) ([]domain.Entity, error) {
	f.gotText = text
	return f.entities, f.err
}

func TestExtract_GenreVocabulary(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"single genre", "show me comedy movies", []string{"comedy"}},
		{"case insensitive", "Some ROMANTIC films please", []string{"romantic"}},
		{"multiple genres keep vocabulary order", "a romantic comedy", []string{"romantic", "comedy"}},
		{"substring match", "I love romances", []string{"romance"}},
		{"no genre", "movies set in space", nil},
	}

	svc := New(nil, zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := svc.Extract(context.Background(), tt.query)
			if !reflect.DeepEqual(set.Genres(), tt.want) {
				t.Errorf("Genres() = %v, want %v", set.Genres(), tt.want)
			}
		})
	}
}

func TestExtract_EntityHints(t *testing.T) {
	fake := &fakeExtractor{entities: []domain.Entity{
		{Label: domain.EntityGPE, Text: "india"},
		{Label: domain.EntityDate, Text: "2015"},
		{Label: domain.EntityPerson, Text: "shah rukh khan"},
	}}
	svc := New(fake, zap.NewNop())

	set := svc.Extract(context.Background(), "Romantic Indian movies from 2015 with Shah Rukh Khan")

	if set.Country() != "india" {
		t.Errorf("Country() = %q", set.Country())
	}
	if set.Year() != "2015" {
		t.Errorf("Year() = %q", set.Year())
	}
	if set.Person() != "shah rukh khan" {
		t.Errorf("Person() = %q", set.Person())
	}
	if fake.gotText != "romantic indian movies from 2015 with shah rukh khan" {
		t.Errorf("extractor received %q, want the lowercased query", fake.gotText)
	}
}

func TestExtract_LastMentionWins(t *testing.T) {
	fake := &fakeExtractor{entities: []domain.Entity{
		{Label: domain.EntityDate, Text: "1999"},
		{Label: domain.EntityDate, Text: "2005"},
	}}
	svc := New(fake, zap.NewNop())

	set := svc.Extract(context.Background(), "movies from 1999 or maybe 2005")
	if set.Year() != "2005" {
		t.Errorf("Year() = %q, want the later mention", set.Year())
	}
}

func TestExtract_UnknownLabelsIgnored(t *testing.T) {
	fake := &fakeExtractor{entities: []domain.Entity{
		{Label: "ORG", Text: "netflix"},
		{Label: domain.EntityDate, Text: "2020"},
	}}
	svc := New(fake, zap.NewNop())

	set := svc.Extract(context.Background(), "netflix shows from 2020")
	if set.Year() != "2020" || set.Country() != "" || set.Person() != "" {
		t.Errorf("unexpected set: %+v", set)
	}
}

func TestExtract_ExtractorFailureDegradesToGenres(t *testing.T) {
	fake := &fakeExtractor{err: errors.New("provider down")}
	svc := New(fake, zap.NewNop())

	set := svc.Extract(context.Background(), "comedy movies from india")
	if !reflect.DeepEqual(set.Genres(), []string{"comedy"}) {
		t.Errorf("Genres() = %v, want genre detection to survive", set.Genres())
	}
	if set.Country() != "" || set.Year() != "" || set.Person() != "" {
		t.Errorf("entity hints should be empty on failure, got %+v", set)
	}
}

func TestExtract_NilExtractor(t *testing.T) {
	svc := New(nil, zap.NewNop())

	set := svc.Extract(context.Background(), "thriller movies from 2015")
	if !reflect.DeepEqual(set.Genres(), []string{"thriller"}) {
		t.Errorf("Genres() = %v", set.Genres())
	}
	if set.Year() != "" {
		t.Errorf("no year hint expected without an extractor, got %q", set.Year())
	}
}

func TestExtract_EmptyQuerySkipsExtractor(t *testing.T) {
	fake := &fakeExtractor{entities: []domain.Entity{{Label: domain.EntityDate, Text: "2020"}}}
	svc := New(fake, zap.NewNop())

	set := svc.Extract(context.Background(), "   ")
	if !set.IsEmpty() {
		t.Errorf("expected empty set for blank query, got %+v", set)
	}
	if fake.gotText != "" {
		t.Error("extractor should not be called for a blank query")
	}
}
