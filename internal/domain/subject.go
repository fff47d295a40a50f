package domain

// SubjectType identifies the kind of authenticated caller.
type SubjectType string

const (
	SubjectTypeStudent  SubjectType = "STUDENT"
	SubjectTypeEmployee SubjectType = "EMPLOYEE"
)

// ActorType converts the authenticated subject into the actor recorded on
// events and comments.
func (s SubjectType) ActorType() ActorType {
	if s == SubjectTypeEmployee {
		return ActorTypeEmployee
	}
	return ActorTypeStudent
}
