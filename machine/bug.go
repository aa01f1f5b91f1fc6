package machine

import "fmt"

// Bug is an internal invariant violation: the host pipeline contradicted
// itself on a program that already passed type checking. Bugs are defects
// in the pipeline, not properties of the program under evaluation, so they
// abort evaluation as a panic carrying *Bug and never travel the fault
// channel.
type Bug struct {
	Msg string
}

func (b *Bug) Error() string {
	return "machine bug: " + b.Msg
}

// bugf logs and aborts. It never returns.
func bugf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Critical(msg)
	panic(&Bug{Msg: msg})
}
