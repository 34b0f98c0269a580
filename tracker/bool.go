package tracker

type (
	Bool struct {
		BoolData
	}

	BoolData interface {
		Value() bool
		Enabled() bool
		setValue(bool)
	}

	RelativeEntry Model
)

func (v Bool) Toggle() {
	v.Set(!v.Value())
}

func (v Bool) Set(value bool) {
	if v.Enabled() && v.Value() != value {
		v.setValue(value)
	}
}

// Model methods

func (m *Model) RelativeEntry() *RelativeEntry { return (*RelativeEntry)(m) }

// RelativeEntry methods

func (m *RelativeEntry) Bool() Bool        { return Bool{m} }
func (m *RelativeEntry) Value() bool       { return m.relative }
func (m *RelativeEntry) setValue(val bool) { m.relative = val }
func (m *RelativeEntry) Enabled() bool     { return true }
