// Package decl provides the declaration builders: Record, Enum, Tuple,
// Conditional and Alias, plus the type constructors their members use.
//
// A builder is mutable until its first Get. Get resolves every member type,
// runs the merge over the scope's axis, registers the resulting timeline and
// returns the wrapped reference timeline. Later calls return the cached
// result. Members lock individually: once a member has been read, by the
// caller or by resolution, its Set* mutators fail with ALREADY_RESOLVED.
//
// Top-level builders should be given their scope with WithScope so that a
// by-value reference from inside another declaration does not nest them.
package decl
