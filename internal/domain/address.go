package domain

import "strings"

// Address names a room or an occupant of a room on the moderated-room
// service, in the form local@domain/resource. Local and resource are optional.
type Address string

func NewAddress(local, domain, resource string) Address {
	var b strings.Builder
	if local != "" {
		b.WriteString(local)
		b.WriteByte('@')
	}
	b.WriteString(domain)
	if resource != "" {
		b.WriteByte('/')
		b.WriteString(resource)
	}
	return Address(b.String())
}

func (a Address) split() (local, domain, resource string) {
	s := string(a)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s, resource = s[:i], s[i+1:]
	}
	if i := strings.IndexByte(s, '@'); i >= 0 {
		local, s = s[:i], s[i+1:]
	}
	return local, s, resource
}

func (a Address) Local() string {
	l, _, _ := a.split()
	return l
}

func (a Address) Domain() string {
	_, d, _ := a.split()
	return d
}

func (a Address) Resource() string {
	_, _, r := a.split()
	return r
}

// Bare strips the resource part.
func (a Address) Bare() Address {
	l, d, _ := a.split()
	return NewAddress(l, d, "")
}

func (a Address) IsZero() bool { return a == "" }

// EqualBare compares two addresses ignoring resources and letter case of
// the local and domain parts.
func (a Address) EqualBare(b Address) bool {
	return strings.EqualFold(string(a.Bare()), string(b.Bare()))
}

func (a Address) String() string { return string(a) }
