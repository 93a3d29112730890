package coordinator

import (
	"fmt"

	"github.com/jamesainslie/drill/pkg/drill/entry"
	"github.com/jamesainslie/drill/pkg/drill/rootset"
)

// Command is a structural change requested by a consumer. Commands are
// applied by the coordinator in submission order.
type Command interface {
	apply(rs rootset.RootSet) (rootset.RootSet, error)
	fmt.Stringer
}

// Ignore removes Entry from the root set.
type Ignore struct {
	Entry entry.Entry
}

func (c Ignore) apply(rs rootset.RootSet) (rootset.RootSet, error) {
	return rs.Ignore(c.Entry)
}

func (c Ignore) String() string {
	if c.Entry == nil {
		return "ignore <nil>"
	}
	return "ignore " + c.Entry.Path()
}

// Split replaces the directory at Path with its children.
type Split struct {
	Path string
}

func (c Split) apply(rs rootset.RootSet) (rootset.RootSet, error) {
	return rs.Split(c.Path)
}

func (c Split) String() string {
	return "split " + c.Path
}
