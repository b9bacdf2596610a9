package appcore

import (
	"errors"

	"courseviewer/internal/lessons"
)

var (
	ErrNotFound                = errors.New("not found")
	errLessonLoaderUnavailable = errors.New("lesson loader unavailable")
)

// SubjectResolver maps the course path segment to a quiz subject directory.
type SubjectResolver func(course string) string

type Context struct {
	loader  *lessons.Loader
	subject SubjectResolver
}

func NewContext(loader *lessons.Loader, subject SubjectResolver) *Context {
	return &Context{loader: loader, subject: subject}
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
