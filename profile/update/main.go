// Profiling:
// go build ./profile/update
// go tool pprof -http=":8000" -nodefraction=0.001 ./update cpu.pprof

package main

import (
	"github.com/edwinsyarief/kukan"
	"github.com/pkg/profile"
)

type position struct {
	X, Y float64
}

type velocity struct {
	X, Y float64
}

func (v *velocity) VUpdate(owner kukan.Object) {
	p := kukan.GetComponent[position](owner.Space, owner.Member)
	p.X += v.X
	p.Y += v.Y
}

func main() {
	frames := 10000
	members := 10000
	kukan.Register[position]()
	kukan.Register[velocity]()
	kukan.AddDependency[velocity, position]()

	s := kukan.NewSpace()
	for range members {
		v := kukan.AddComponent[velocity](s, s.CreateMember())
		v.X, v.Y = 1, 2
	}

	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	for range frames {
		s.Update()
	}
	p.Stop()
}
