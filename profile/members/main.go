// Profiling:
// go build ./profile/members
// go tool pprof -http=":8000" -nodefraction=0.001 ./members mem.pprof

package main

import (
	"github.com/edwinsyarief/kukan"
	"github.com/pkg/profile"
)

type transform struct {
	X, Y float64
}

type velocity struct {
	X, Y float64
}

func main() {
	rounds := 50
	iters := 1000
	members := 1000
	kukan.Register[transform]()
	kukan.Register[velocity]()
	kukan.AddDependency[velocity, transform]()
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, members)
	p.Stop()
}

func run(rounds, iters, numMembers int) {
	ids := make([]kukan.MemberId, 0, numMembers)
	for range rounds {
		s := kukan.NewSpace(kukan.WithConfig(kukan.Config{
			Name:               "profile",
			MemberCapacity:     numMembers,
			DescriptorCapacity: numMembers * 2,
		}))
		for range iters {
			for range numMembers {
				m := s.CreateMember()
				kukan.AddComponent[velocity](s, m)
				ids = append(ids, m)
			}
			for _, m := range ids {
				s.DeleteMember(m)
			}
			ids = ids[:0]
		}
	}
}
