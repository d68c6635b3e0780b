package types

import (
	"fmt"
	"strings"
)

// Severity - оценка тяжести травмы.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityUrgent   Severity = "urgent"
	SeverityMinor    Severity = "minor"
)

// Severities lists the closed enumeration in schema order.
var Severities = []Severity{SeverityCritical, SeverityUrgent, SeverityMinor}

func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityUrgent, SeverityMinor:
		return true
	}
	return false
}

// ParseSeverity accepts any casing but never values outside the enumeration.
func ParseSeverity(v string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("severity %q is not one of critical|urgent|minor", v)
	}
	return s, nil
}

func (s Severity) String() string { return string(s) }
