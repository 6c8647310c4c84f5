package formula

import (
	"fmt"
	"sync"

	"github.com/wyatt915/treeblood"
)

// MathML renders TeX to MathML in-process. It is ready as soon as it is
// created.
type MathML struct {
	mu  sync.Mutex
	doc *treeblood.Pitziil
}

// NewMathML creates a MathML engine. macros maps macro names (without the
// backslash) to their TeX expansion and may be nil.
func NewMathML(macros map[string]string) *MathML {
	return &MathML{doc: treeblood.NewDocument(macros, false)}
}

// Ready reports true.
func (m *MathML) Ready() bool { return true }

// Render converts tex to a <math> element.
func (m *MathML) Render(tex string, display bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		out string
		err error
	)
	if display {
		out, err = m.doc.DisplayStyle(tex)
	} else {
		out, err = m.doc.TextStyle(tex)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return out, nil
}
