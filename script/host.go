// Package script lets members carry behavior written in Lua.
//
// A Host wraps one gopher-lua VM bound to a Space and is stored among the
// Space's resources; the Script component calls a global Lua function of that
// VM on every Update.
package script

import (
	"os"
	"path/filepath"

	"github.com/edwinsyarief/kukan"
	"github.com/rotisserie/eris"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ErrNoFunction is returned by Call when the global is not a function.
var ErrNoFunction = eris.New("script: no such lua function")

// Host wraps a single gopher-lua VM. It must only be used from the goroutine
// driving its Space.
type Host struct {
	vm    *lua.LState
	log   *zap.Logger
	space *kukan.Space
	id    int
}

// NewHost creates a VM exposing the member API of space and stores the Host
// as a resource of space.
func NewHost(space *kukan.Space, log *zap.Logger) *Host {
	if log == nil {
		log = space.Logger()
	}
	h := &Host{
		vm:    lua.NewState(),
		log:   log.Named("script"),
		space: space,
	}
	h.vm.SetGlobal("API_VERSION", lua.LNumber(1))
	h.register("member_valid", h.luaMemberValid)
	h.register("member_name", h.luaMemberName)
	h.register("set_member_name", h.luaSetMemberName)
	h.register("member_parent", h.luaMemberParent)
	h.register("member_children", h.luaMemberChildren)
	h.id = space.Resources().Add(h)
	return h
}

// HostOf returns the Host stored in space, or nil.
func HostOf(space *kukan.Space) *Host {
	h, _ := kukan.GetResource[Host](space.Resources())
	return h
}

// Close shuts the VM down and removes the Host from its Space.
func (h *Host) Close() {
	h.space.Resources().Remove(h.id)
	h.vm.Close()
}

// DoString runs a chunk of Lua source.
func (h *Host) DoString(src string) error {
	if err := h.vm.DoString(src); err != nil {
		return eris.Wrap(err, "script: run chunk")
	}
	return nil
}

// DoFile runs a Lua file.
func (h *Host) DoFile(path string) error {
	if err := h.vm.DoFile(path); err != nil {
		return eris.Wrapf(err, "script: load %s", path)
	}
	h.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// LoadDir runs every .lua file of dir in name order. A missing dir is not an
// error.
func (h *Host) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return eris.Wrapf(err, "script: read %s", dir)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := h.DoFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Call invokes the global Lua function fn with the member id m.
func (h *Host) Call(fn string, m kukan.MemberId) error {
	f, ok := h.vm.GetGlobal(fn).(*lua.LFunction)
	if !ok {
		return eris.Wrapf(ErrNoFunction, "%q", fn)
	}
	if err := h.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(m)); err != nil {
		return eris.Wrapf(err, "script: call %s", fn)
	}
	return nil
}

func (h *Host) register(name string, fn lua.LGFunction) {
	h.vm.SetGlobal(name, h.vm.NewFunction(fn))
}

// checkMember reads a live member id from argument n.
func (h *Host) checkMember(L *lua.LState, n int) kukan.MemberId {
	m := kukan.MemberId(L.CheckInt(n))
	if !h.space.ValidMember(m) {
		L.ArgError(n, "invalid member")
	}
	return m
}

func (h *Host) luaMemberValid(L *lua.LState) int {
	L.Push(lua.LBool(h.space.ValidMember(kukan.MemberId(L.CheckInt(1)))))
	return 1
}

func (h *Host) luaMemberName(L *lua.LState) int {
	L.Push(lua.LString(h.space.Name(h.checkMember(L, 1))))
	return 1
}

func (h *Host) luaSetMemberName(L *lua.LState) int {
	h.space.SetName(h.checkMember(L, 1), L.CheckString(2))
	return 0
}

func (h *Host) luaMemberParent(L *lua.LState) int {
	L.Push(lua.LNumber(h.space.Parent(h.checkMember(L, 1))))
	return 1
}

func (h *Host) luaMemberChildren(L *lua.LState) int {
	t := L.NewTable()
	for _, c := range h.space.Children(h.checkMember(L, 1)) {
		t.Append(lua.LNumber(c))
	}
	L.Push(t)
	return 1
}
