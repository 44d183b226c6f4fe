package domain

import "fmt"

// Severity of a Problem
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Problem is a structural issue found while loading or merging sources.
// The offending item is dropped and the rest of the data is kept.
type Problem struct {
	Severity Severity `json:"severity"`
	Source   string   `json:"source"`
	Subject  string   `json:"subject,omitempty"`
	Message  string   `json:"message"`
}

// Errorf creates an error-level problem
func Errorf(source, subject, format string, args ...any) Problem {
	return Problem{
		Severity: SeverityError,
		Source:   source,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Warnf creates a warning-level problem
func Warnf(source, subject, format string, args ...any) Problem {
	return Problem{
		Severity: SeverityWarning,
		Source:   source,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	}
}

func (p Problem) String() string {
	if p.Subject == "" {
		return fmt.Sprintf("[%s] %s: %s", p.Severity, p.Source, p.Message)
	}
	return fmt.Sprintf("[%s] %s: %s: %s", p.Severity, p.Source, p.Subject, p.Message)
}

// HasErrors reports whether any problem is error-level
func HasErrors(problems []Problem) bool {
	for _, p := range problems {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}
