package context

import (
	"context"

	"golang.org/x/text/language"

	"github.com/rahul4469/review-sentiment/internal/models"
)

type contextkey string

const (
	visitorKey  contextkey = "visitor"
	languageKey contextkey = "language"
)

// ContextSetVisitor binds the visitor to ctx.
func ContextSetVisitor(ctx context.Context, visitor *models.Visitor) context.Context {
	return context.WithValue(ctx, visitorKey, visitor)
}

// ContextGetVisitor returns nil when no visitor middleware ran.
func ContextGetVisitor(ctx context.Context) *models.Visitor {
	val := ctx.Value(visitorKey)
	visitor, ok := val.(*models.Visitor)
	if !ok {
		return nil
	}
	return visitor
}

func ContextSetLanguage(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, languageKey, tag)
}

// ContextGetLanguage returns the request language, or ok=false if unset.
func ContextGetLanguage(ctx context.Context) (language.Tag, bool) {
	tag, ok := ctx.Value(languageKey).(language.Tag)
	return tag, ok
}
