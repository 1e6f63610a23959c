package provision

import (
	"errors"   // errors detects the already-exists sentinel
	"fmt"      // fmt formats the summary line
	"io"       // io is where the summary is printed
	"log/slog" // slog reports per-user outcomes

	"github.com/r3dlin3/new-labusers/internal/directory"
	"github.com/r3dlin3/new-labusers/internal/generator"
	"github.com/r3dlin3/new-labusers/internal/planner"
)

// UserCreator is the part of the directory the materializer touches.
type UserCreator interface {
	CreateUser(user generator.UserRecord, pathDN string) error
}

// Summary is the outcome of a run.
type Summary struct {
	Succeeded int            // Succeeded counts users created
	Total     int            // Total counts users attempted
	OUs       planner.Result // OUs is what the planner did
}

// String is the final report line.
func (s Summary) String() string {
	return fmt.Sprintf("%d out of %d users created.", s.Succeeded, s.Total)
}

// Materializer creates accounts one by one. A failure on one account is
// logged and never stops the rest.
type Materializer struct {
	dir    UserCreator
	logger *slog.Logger
}

// NewMaterializer is an initializer function for Materializer.
func NewMaterializer(dir UserCreator, logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Materializer{dir: dir, logger: logger}
}

// Materialize creates every user under pathDN and counts the successes.
func (m *Materializer) Materialize(users []generator.UserRecord, pathDN string) Summary {
	s := Summary{Total: len(users)}
	for _, u := range users {
		// A failed account is logged and skipped; it only lowers Succeeded.
		if err := m.dir.CreateUser(u, pathDN); err != nil {
			m.logger.Warn("failed to create user",
				"account", u.AccountName,
				"already_exists", errors.Is(err, directory.ErrAlreadyExists),
				"error", err.Error(),
			)
			continue
		}

		// Count the account only after the directory accepted it.
		m.logger.Info("created user", "account", u.AccountName, "department", u.Department)
		s.Succeeded++
	}
	return s
}

///////////////////////////////////////////////////////////////////////////////
// Report
///////////////////////////////////////////////////////////////////////////////

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// Report prints the summary line to w. With color set it is green when
// every user was created, yellow on a partial run and red when none were.
func Report(w io.Writer, s Summary, color bool) error {
	line := s.String()
	if color {
		code := ansiYellow
		switch {
		case s.Succeeded == s.Total:
			code = ansiGreen
		case s.Succeeded == 0:
			code = ansiRed
		}
		line = code + line + ansiReset
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
