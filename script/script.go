package script

import (
	"github.com/edwinsyarief/kukan"
	"github.com/edwinsyarief/kukan/doc"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Script runs the global Lua function named Function, passing the owning
// member id, once per Update of its Space. It needs a Host in the Space;
// without one, or with an empty Function, it does nothing.
type Script struct {
	Function string
	// Failures counts calls that raised an error. It is not serialized.
	Failures int
}

func (s *Script) VUpdate(owner kukan.Object) {
	if s.Function == "" {
		return
	}
	h := HostOf(owner.Space)
	if h == nil {
		return
	}
	if err := h.Call(s.Function, owner.Member); err != nil {
		s.Failures++
		h.log.Warn("lua update failed",
			zap.Int("member", int(owner.Member)),
			zap.String("function", s.Function),
			zap.Error(err))
	}
}

func (s *Script) VSerialize(val *doc.Value) {
	val.Field("Function").SetString(s.Function)
}

func (s *Script) VDeserialize(val *doc.Value) error {
	fn, err := val.Get("Function").AsString()
	if err != nil {
		return eris.Wrap(err, "script function")
	}
	s.Function = fn
	return nil
}
