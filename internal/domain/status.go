package domain

// Translation types as written in the type attribute of <translation>.
const (
	TypeFinished   = ""
	TypeUnfinished = "unfinished"
	TypeObsolete   = "obsolete"
	TypeVanished   = "vanished"
)

// ValidType reports whether t is a translation type known to the TS format.
func ValidType(t string) bool {
	switch t {
	case TypeFinished, TypeUnfinished, TypeObsolete, TypeVanished:
		return true
	}
	return false
}
