package ir

import "strings"

// NameSeparator joins the segments of a QualifiedName.
const NameSeparator = "."

// QualifiedName is the path of a declaration through nested scopes,
// e.g. "Message.Attachment".
type QualifiedName string

// Child returns the name of a declaration nested under q.
func (q QualifiedName) Child(name string) QualifiedName {
	if q == "" {
		return QualifiedName(name)
	}
	return q + NameSeparator + QualifiedName(name)
}

// Parent returns the enclosing name, or "" for a top-level name.
func (q QualifiedName) Parent() QualifiedName {
	i := strings.LastIndex(string(q), NameSeparator)
	if i < 0 {
		return ""
	}
	return q[:i]
}

// Local returns the last segment.
func (q QualifiedName) Local() string {
	i := strings.LastIndex(string(q), NameSeparator)
	return string(q[i+1:])
}

// Segments splits the name into its scope path.
func (q QualifiedName) Segments() []string {
	if q == "" {
		return nil
	}
	return strings.Split(string(q), NameSeparator)
}

// String implements fmt.Stringer.
func (q QualifiedName) String() string {
	return string(q)
}
